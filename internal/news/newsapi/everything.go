package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"
	"time"
)

// Article is one entry of the articles array.
type Article struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// EverythingRequest holds the parameters of /v2/everything we use.
type EverythingRequest struct {
	Query    string
	SortBy   string
	Page     int
	PageSize int
}

// EverythingResponse is the /v2/everything body.
type EverythingResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// APIError is the error body NewsAPI returns with status "error".
type APIError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("newsapi: %s: %s", e.Code, e.Message)
}

// Everything searches all articles matching r.Query.
func (c *Client) Everything(ctx context.Context, r EverythingRequest) (EverythingResponse, error) {
	query := maps.Clone(c.query)
	query.Set("q", r.Query)
	if r.SortBy != "" {
		query.Set("sortBy", r.SortBy)
	}
	if r.Page > 0 {
		query.Set("page", strconv.Itoa(r.Page))
	}
	if r.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(r.PageSize))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/everything?"+query.Encode(), http.NoBody)
	if err != nil {
		return EverythingResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()
	req.Header.Set("X-Api-Key", c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return EverythingResponse{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	body := io.LimitReader(res.Body, 4<<20)
	if res.StatusCode != http.StatusOK {
		var apiErr APIError
		if err := json.NewDecoder(body).Decode(&apiErr); err == nil && apiErr.Code != "" {
			return EverythingResponse{}, &apiErr
		}
		switch res.StatusCode {
		case http.StatusUnauthorized:
			return EverythingResponse{}, fmt.Errorf("unauthorized")
		case http.StatusTooManyRequests:
			return EverythingResponse{}, fmt.Errorf("rate limited")
		default:
			return EverythingResponse{}, fmt.Errorf("unexpected status code: %d", res.StatusCode)
		}
	}

	var out EverythingResponse
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		return EverythingResponse{}, fmt.Errorf("decoding response: %w", err)
	}
	if out.Status == "error" {
		return EverythingResponse{}, &APIError{Status: out.Status, Code: "error", Message: "status error"}
	}
	return out, nil
}
