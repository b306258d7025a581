package menuimport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// FeedLoader reads the menu feed from a local file or an http(s) URL.
type FeedLoader struct {
	httpClient *http.Client
}

func NewFeedLoader() *FeedLoader {
	return &FeedLoader{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (l *FeedLoader) Load(ctx context.Context, source string) ([]FeedItem, error) {
	var (
		body io.ReadCloser
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err = l.fetch(ctx, source)
	} else {
		body, err = os.Open(source)
	}
	if err != nil {
		return nil, fmt.Errorf("open menu feed %s: %w", source, err)
	}
	defer body.Close()

	var items []FeedItem
	if err := json.NewDecoder(body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode menu feed %s: %w", source, err)
	}
	return items, nil
}

func (l *FeedLoader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
