package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecorder_AppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "interactions.jsonl")
	rec, err := NewRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}

	ev1 := Event{Timestamp: time.Unix(1, 0).UTC(), UserID: "u1", Action: "send"}
	ev2 := Event{Timestamp: time.Unix(2, 0).UTC(), UserID: "u2", Action: "refresh", Error: "no posts found"}
	if err := rec.Append(ev1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := rec.Append(ev2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("want 2 events, got %d", len(events))
	}
	if events[0].UserID != "u1" || events[1].UserID != "u2" {
		t.Fatalf("order mismatch: %+v", events)
	}
	if events[1].Error != "no posts found" {
		t.Fatalf("error field lost: %+v", events[1])
	}
}

func TestRecorder_SkipsMalformedLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "interactions.jsonl")
	rec, err := NewRecorder(p)
	if err != nil {
		t.Fatalf("init recorder: %v", err)
	}
	if err := rec.Append(Event{UserID: "u1", Action: "config"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("{garbage\n"); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	_ = f.Close()

	events, err := rec.LoadEvents()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("want 1 event, got %d", len(events))
	}
}
