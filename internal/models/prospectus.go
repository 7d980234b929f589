package models

import "time"

// ProspectusInfo represents metadata about a stored prospectus document.
type ProspectusInfo struct {
	ID         string    `json:"id"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ProspectusFile is a served prospectus: metadata plus the raw PDF bytes.
type ProspectusFile struct {
	Info ProspectusInfo
	Data []byte
}
