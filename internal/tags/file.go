package tags

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// FileStore keeps all user configs in memory and mirrors them to a single
// JSON file, rewritten wholesale after every mutation. The in-memory map
// stays authoritative when a flush fails.
type FileStore struct {
	path    string
	mu      sync.Mutex
	configs map[string]*UserConfig
	log     *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	// Touch file if not exists
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("touch file: %w", err)
	}
	_ = f.Close()

	s := &FileStore{
		path:    path,
		configs: make(map[string]*UserConfig),
		log:     log,
	}
	s.load()
	return s, nil
}

func (s *FileStore) Get(userID string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureUnlocked(userID).snapshot()
}

func (s *FileStore) Set(userID string, tags []string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	cfg.Tags = filterBlank(tags)
	s.saveUnlocked()
	return cfg.snapshot()
}

func (s *FileStore) Add(userID string, tag string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	trimmed := strings.TrimSpace(tag)
	if trimmed != "" && !contains(cfg.Tags, trimmed) {
		cfg.Tags = append(cfg.Tags, trimmed)
		s.saveUnlocked()
	}
	return cfg.snapshot()
}

func (s *FileStore) Remove(userID string, tag string) UserConfig {
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
	s.saveUnlocked()
	return cfg.snapshot()
}

func (s *FileStore) Reset(userID string) UserConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.ensureUnlocked(userID)
	cfg.Tags = append([]string(nil), DefaultTags...)
	s.saveUnlocked()
	return cfg.snapshot()
}

// ensureUnlocked returns the config for userID, creating and persisting a
// default one on first access. Caller must hold the lock.
func (s *FileStore) ensureUnlocked(userID string) *UserConfig {
	if cfg, ok := s.configs[userID]; ok {
		return cfg
	}
	cfg := defaultConfig()
	s.configs[userID] = cfg
	s.saveUnlocked()
	return cfg
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn("failed to read tag store file", zap.String("path", s.path), zap.Error(err))
		return
	}
	if len(data) == 0 {
		return
	}
	var configs map[string]*UserConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		// malformed -> start fresh
		s.log.Warn("malformed tag store file, starting empty", zap.String("path", s.path), zap.Error(err))
		return
	}
	if configs == nil {
		// a bare JSON null decodes without error
		s.log.Warn("null tag store file, starting empty", zap.String("path", s.path))
		return
	}
	for userID, cfg := range configs {
		if cfg == nil {
			// null entries decode to nil configs; drop them so the user
			// falls back to defaults on first access
			s.log.Warn("dropping null user config", zap.String("path", s.path), zap.String("user_id", userID))
			delete(configs, userID)
		}
	}
	s.configs = configs
}

func (s *FileStore) saveUnlocked() {
	f, err := os.OpenFile(s.path, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		s.log.Error("failed to save user configs", zap.String("path", s.path), zap.Error(err))
		return
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.configs); err != nil {
		s.log.Error("failed to save user configs", zap.String("path", s.path), zap.Error(err))
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
