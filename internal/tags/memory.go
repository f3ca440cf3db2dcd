package tags

import (
	"strings"
	"sync"
)

// MemoryStore is a map-only Store for tests and for running without a data
// directory. Semantics match FileStore minus persistence.
type MemoryStore struct {
	mu      sync.Mutex
	configs map[string]*UserConfig
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{configs: make(map[string]*UserConfig)}
}

func (s *MemoryStore) Get(userID string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureUnlocked(userID).snapshot()
}

func (s *MemoryStore) Set(userID string, tags []string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	cfg.Tags = filterBlank(tags)
	return cfg.snapshot()
}

func (s *MemoryStore) Add(userID string, tag string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	trimmed := strings.TrimSpace(tag)
	if trimmed != "" && !contains(cfg.Tags, trimmed) {
		cfg.Tags = append(cfg.Tags, trimmed)
	}
	return cfg.snapshot()
}

func (s *MemoryStore) Remove(userID string, tag string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	out := cfg.Tags[:0]
	for _, t := range cfg.Tags {
		if t != tag {
			out = append(out, t)
		}
	}
	cfg.Tags = out
	return cfg.snapshot()
}

func (s *MemoryStore) Reset(userID string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	cfg.Tags = append([]string(nil), DefaultTags...)
	return cfg.snapshot()
}

func (s *MemoryStore) ensureUnlocked(userID string) *UserConfig {
	if cfg, ok := s.configs[userID]; ok {
		return cfg
	}
	cfg := defaultConfig()
	s.configs[userID] = cfg
	return cfg
}
