package tags

import (
	"reflect"
	"testing"
)

func TestMemoryStore_DefaultsAndMutations(t *testing.T) {
	s := NewMemoryStore()

	cfg := s.Get("u1")
	if !reflect.DeepEqual(cfg.Tags, DefaultTags) {
		t.Fatalf("want defaults, got %v", cfg.Tags)
	}

	s.Add("u1", "extra")
	if !contains(s.Get("u1").Tags, "extra") {
		t.Fatalf("add lost: %v", s.Get("u1").Tags)
	}

	// other users are unaffected
	if contains(s.Get("u2").Tags, "extra") {
		t.Fatalf("mutation leaked across users")
	}

	cfg = s.Reset("u1")
	if !reflect.DeepEqual(cfg.Tags, DefaultTags) {
		t.Fatalf("reset did not restore defaults: %v", cfg.Tags)
	}
}

func TestMemoryStore_SnapshotIsolation(t *testing.T) {
	s := NewMemoryStore()

	cfg := s.Get("u")
	cfg.Tags[0] = "mutated"
	if s.Get("u").Tags[0] == "mutated" {
		t.Fatalf("returned config aliases internal state")
	}
}
