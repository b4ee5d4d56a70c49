/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxResponseSize = 4 << 20

// Catalog is the remote source of categories and clues.
type Catalog interface {
	Categories(ctx context.Context, count, offset int) ([]CategorySummary, error)
	Category(ctx context.Context, id int) (Category, error)
}

// Client talks to a jservice-compatible trivia API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	UserAgent string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type apiClue struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type apiCategory struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	Clues []apiClue `json:"clues"`
}

// Categories returns one page of the category catalog.
func (c *Client) Categories(ctx context.Context, count, offset int) ([]CategorySummary, error) {
	q := url.Values{}
	q.Set("count", strconv.Itoa(count))
	q.Set("offset", strconv.Itoa(offset))

	var page []CategorySummary
	if err := c.get(ctx, "/api/categories", q, &page); err != nil {
		return nil, err
	}

	return page, nil
}

// Category returns the full clue list for one category, every clue Hidden.
func (c *Client) Category(ctx context.Context, id int) (Category, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(id))

	var raw apiCategory
	if err := c.get(ctx, "/api/category", q, &raw); err != nil {
		return Category{}, err
	}

	cat := Category{
		ID:    raw.ID,
		Title: raw.Title,
		Clues: make([]Clue, 0, len(raw.Clues)),
	}
	for _, clue := range raw.Clues {
		cat.Clues = append(cat.Clues, Clue{
			Question: clue.Question,
			Answer:   clue.Answer,
		})
	}

	return cat, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("GET %s: %w", path, ErrTooManyRequests)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}

	return nil
}
