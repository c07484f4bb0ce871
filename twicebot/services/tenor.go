package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
	"github.com/twicebot/twicebot/twicebot/config"
)

const tenorSearchURL = "https://tenor.googleapis.com/v2/search"

var ErrNoGifs = errors.New("no gifs found")

type tenorResponse struct {
	Results []struct {
		ID           string `json:"id"`
		ItemURL      string `json:"itemurl"`
		MediaFormats map[string]struct {
			URL string `json:"url"`
		} `json:"media_formats"`
	} `json:"results"`
}

// TenorService searches Tenor and caches the result URLs per query.
type TenorService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	clientKey string
	limit     int
	terms     termList
	cache     *lru.Cache
	logger    *slog.Logger
}

func NewTenorService(apiKey, clientKey string, limit, cacheSize int, terms []string) (*TenorService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create gif cache: %w", err)
	}
	return &TenorService{
		client:    &http.Client{Timeout: config.HTTPClientTimeout},
		baseURL:   tenorSearchURL,
		apiKey:    apiKey,
		clientKey: clientKey,
		limit:     limit,
		terms:     terms,
		cache:     cache,
		logger:    slog.With(slog.String("service", "tenor")),
	}, nil
}

func (s *TenorService) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// Random returns a random gif URL for query.
func (s *TenorService) Random(ctx context.Context, query string) (string, error) {
	urls, err := s.Search(ctx, query)
	if err != nil {
		return "", err
	}
	return urls[rand.IntN(len(urls))], nil
}

func (s *TenorService) Search(ctx context.Context, query string) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, errors.New("query cannot be empty")
	}
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]string), nil
	}

	params := url.Values{}
	params.Set("q", key)
	params.Set("key", s.apiKey)
	params.Set("limit", strconv.Itoa(s.limit))
	params.Set("media_filter", "gif")
	if s.clientKey != "" {
		params.Set("client_key", s.clientKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tenor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tenor returned status %d", resp.StatusCode)
	}

	var body tenorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode tenor response: %w", err)
	}

	urls := make([]string, 0, len(body.Results))
	for _, r := range body.Results {
		if gif, ok := r.MediaFormats["gif"]; ok && gif.URL != "" {
			urls = append(urls, gif.URL)
		} else if r.ItemURL != "" {
			urls = append(urls, r.ItemURL)
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoGifs
	}

	s.cache.Add(key, urls)
	s.logger.Debug("Cached gif results",
		slog.String("query", key),
		slog.Int("results", len(urls)))
	return urls, nil
}

type termList []string

func (t termList) String(i int) string { return t[i] }
func (t termList) Len() int            { return len(t) }

// Suggest returns configured terms matching partial, best match first.
func (s *TenorService) Suggest(partial string, max int) []string {
	if partial == "" {
		return s.terms[:min(max, len(s.terms))]
	}
	matches := fuzzy.FindFrom(partial, s.terms)
	out := make([]string, 0, min(max, len(matches)))
	for _, m := range matches {
		if len(out) == max {
			break
		}
		out = append(out, s.terms[m.Index])
	}
	return out
}
