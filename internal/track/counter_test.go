package track

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func TestCounter_Record(t *testing.T) {
	c := NewCounter()

	if !c.Record("/ipos/acme") {
		t.Fatal("expected record to succeed")
	}
	c.Record("/ipos/acme")
	c.Record("/ipos/other")

	views := c.Snapshot()
	if views["/ipos/acme"] != 2 {
		t.Errorf("expected 2 views for /ipos/acme, got %d", views["/ipos/acme"])
	}
	if views["/ipos/other"] != 1 {
		t.Errorf("expected 1 view for /ipos/other, got %d", views["/ipos/other"])
	}
}

func TestCounter_Record_BlankPath(t *testing.T) {
	c := NewCounter()
	if c.Record("") || c.Record("   ") || c.Record("?x=1") {
		t.Error("blank paths must not be recorded")
	}
	if len(c.Snapshot()) != 0 {
		t.Error("expected empty counter")
	}
}

func TestCounter_Record_Capacity(t *testing.T) {
	c := NewCounter()
	for i := 0; i < MaxPaths; i++ {
		if !c.Record(fmt.Sprintf("/page/%d", i)) {
			t.Fatalf("record %d failed below capacity", i)
		}
	}

	if c.Record("/one-too-many") {
		t.Error("expected new path beyond capacity to be dropped")
	}
	// Known paths still count.
	if !c.Record("/page/0") {
		t.Error("existing path must still be recordable at capacity")
	}
}

func TestCounter_ConcurrentRecords(t *testing.T) {
	c := NewCounter()

	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				c.Record("/ipos/hot-listing")
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot()["/ipos/hot-listing"]; got != workers*perWorker {
		t.Errorf("expected %d views, got %d", workers*perWorker, got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/ipos", "/ipos"},
		{"ipos", "/ipos"},
		{"  /ipos  ", "/ipos"},
		{"/ipos?tab=metrics", "/ipos"},
		{"/ipos#section", "/ipos"},
		{"", ""},
		{"?only=query", ""},
		{"/" + strings.Repeat("a", 1000), "/" + strings.Repeat("a", maxPathLen-1)},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
