package client

// http_client.go = typed calls against the foodfinder HTTP API.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"foodfinder/internal/microservices/http-api/dto"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) Menu(ctx context.Context, hall string) ([]dto.MenuItemResponse, error) {
	var items []dto.MenuItemResponse
	err := c.do(ctx, "fetch menu", http.MethodGet, "/"+url.PathEscape(hall), nil, &items)
	return items, err
}

func (c *HTTPClient) GroupedMenu(ctx context.Context, hall string) (*dto.GroupedMenuResponse, error) {
	var grouped dto.GroupedMenuResponse
	if err := c.do(ctx, "fetch grouped menu", http.MethodGet, "/"+url.PathEscape(hall)+"/grouped", nil, &grouped); err != nil {
		return nil, err
	}
	return &grouped, nil
}

// Vote hits the atomic increment endpoint and returns the server-confirmed item.
func (c *HTTPClient) Vote(ctx context.Context, hall string, itemID int64, up bool) (*dto.MenuItemResponse, error) {
	action := "downvote"
	if up {
		action = "upvote"
	}
	var item dto.MenuItemResponse
	path := fmt.Sprintf("/%s/%d/%s", url.PathEscape(hall), itemID, action)
	if err := c.do(ctx, action, http.MethodPost, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) Tally(ctx context.Context, hall string, itemID int64) (*dto.TallyResponse, error) {
	var tally dto.TallyResponse
	path := fmt.Sprintf("/%s/%d/tally", url.PathEscape(hall), itemID)
	if err := c.do(ctx, "fetch tally", http.MethodGet, path, nil, &tally); err != nil {
		return nil, err
	}
	return &tally, nil
}

type foodRatingRequest struct {
	ItemName  string `json:"itemName"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
}

func (c *HTTPClient) LogRating(ctx context.Context, itemName string, upvotes, downvotes int64) (*dto.RatingEventResponse, error) {
	var event dto.RatingEventResponse
	body := foodRatingRequest{ItemName: itemName, Upvotes: upvotes, Downvotes: downvotes}
	if err := c.do(ctx, "log rating", http.MethodPost, "/foodratings", body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) ListRatings(ctx context.Context, itemName string, limit int) ([]dto.RatingEventResponse, error) {
	q := url.Values{}
	if itemName != "" {
		q.Set("item_name", itemName)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/foodratings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var events []dto.RatingEventResponse
	err := c.do(ctx, "list ratings", http.MethodGet, path, nil, &events)
	return events, err
}

func (c *HTTPClient) RateStars(ctx context.Context, hall string, itemID int64, stars int) (*dto.StarRatingResponse, error) {
	var rating dto.StarRatingResponse
	path := fmt.Sprintf("/%s/%d/stars", url.PathEscape(hall), itemID)
	body := map[string]int{"given_stars": stars}
	if err := c.do(ctx, "rate stars", http.MethodPost, path, body, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// do sends one request and decodes a 2xx JSON body into out. out may be nil.
func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(response.Body).Decode(&errResp)
		return &APIError{Op: op, StatusCode: response.StatusCode, Message: errResp.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}
