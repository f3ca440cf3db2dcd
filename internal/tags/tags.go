package tags

import "strings"

// UserConfig is the search configuration of a single user. Tags are kept
// in insertion order; uniqueness is enforced only by Add, not by Set.
type UserConfig struct {
	Tags []string `json:"tags"`
}

// Store abstracts persistence of per-user tag lists.
// Implementations can be file-based, in-memory, etc.
// Unseen users are lazily created with a copy of DefaultTags. Operations
// never fail the caller; persistence errors are handled by the
// implementation.
type Store interface {
	Get(userID string) UserConfig
	Set(userID string, tags []string) UserConfig
	Add(userID string, tag string) UserConfig
	Remove(userID string, tag string) UserConfig
	Reset(userID string) UserConfig
}

// DefaultTags is the tag list every user starts with.
var DefaultTags = []string{
	"order:random",
	"score:>200",
	"rating:safe",
	"-comic",
	"type:gif",
	"animated",
}

func defaultConfig() *UserConfig {
	return &UserConfig{Tags: append([]string(nil), DefaultTags...)}
}

func (c *UserConfig) snapshot() UserConfig {
	return UserConfig{Tags: append([]string(nil), c.Tags...)}
}

func filterBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if strings.TrimSpace(t) != "" {
			out = append(out, t)
		}
	}
	return out
}
