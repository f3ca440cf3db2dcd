package e621

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"discord-giff/internal/tags"
)

const (
	defaultBaseURL   = "https://e621.net"
	defaultUserAgent = "discord-giff"

	pageLimit      = 10
	maxAttempts    = 3
	attemptTimeout = 2 * time.Second
)

var (
	// ErrNoPosts is returned by a single attempt when the upstream search
	// yields zero raw results. Distinct from a filtered-to-empty attempt,
	// which is not an error.
	ErrNoPosts = errors.New("no posts found")

	// ErrNoGif is the terminal error after all attempts completed without
	// a matching post.
	ErrNoGif = errors.New("no valid gif found after retries")
)

// Gif is a single matched result. Ephemeral, never stored.
type Gif struct {
	URL string
}

type Post struct {
	File PostFile `json:"file"`
}

type PostFile struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

type postsResponse struct {
	Posts []Post `json:"posts"`
}

// Client queries the e621 search API with a user's configured tags.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	attemptTimeout time.Duration
	store          tags.Store
	log            *zap.Logger
}

func NewClient(baseURL, userAgent string, store tags.Store, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		httpClient:     &http.Client{},
		baseURL:        strings.TrimRight(baseURL, "/"),
		userAgent:      userAgent,
		attemptTimeout: attemptTimeout,
		store:          store,
		log:            log,
	}
}

// FetchRandomGif resolves the user's tag list and queries the search API up
// to maxAttempts times, returning one matching post picked uniformly at
// random. The final attempt's error is surfaced; a run where every attempt
// merely filtered to empty ends with ErrNoGif.
func (c *Client) FetchRandomGif(ctx context.Context, userID string) (*Gif, error) {
	cfg := c.store.Get(userID)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		gif, err := c.searchOnce(ctx, cfg.Tags)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				c.log.Warn("e621 API timeout",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", maxAttempts))
			} else {
				c.log.Warn("e621 API error",
					zap.Int("attempt", attempt),
					zap.Int("max_attempts", maxAttempts),
					zap.Error(err))
			}
			if attempt == maxAttempts {
				return nil, err
			}
			continue
		}
		if gif != nil {
			return gif, nil
		}
		// had posts, none in the wanted format: try again
		c.log.Debug("no gif matched format", zap.Int("attempt", attempt))
	}
	return nil, ErrNoGif
}

// searchOnce performs one bounded query. It returns (nil, nil) when the
// upstream returned posts but none had a usable gif file.
func (c *Client) searchOnce(ctx context.Context, searchTags []string) (*Gif, error) {
	ctx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("tags", strings.Join(searchTags, " "))
	q.Set("limit", strconv.Itoa(pageLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts.json?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api error: %d", resp.StatusCode)
	}

	var parsed postsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Posts) == 0 {
		return nil, ErrNoPosts
	}

	var valid []Post
	for _, p := range parsed.Posts {
		if p.File.URL != "" && p.File.Ext == "gif" {
			valid = append(valid, p)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	return &Gif{URL: valid[rand.Intn(len(valid))].File.URL}, nil
}
