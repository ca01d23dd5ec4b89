// Package client talks to a model server that exposes per-text perplexity.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultEndpoint = "/perplexity"

type Client struct {
	baseURL  string
	endpoint string
	http     *http.Client
}

func New(baseURL, endpoint string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  baseURL,
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

type perplexityRequest struct {
	Texts []string `json:"texts"`
}

type perplexityResponse struct {
	Perplexities []float64 `json:"perplexities"`
}

// Perplexity returns one perplexity per text, in order. Lower is more probable.
func (c *Client) Perplexity(ctx context.Context, texts []string) ([]float64, error) {
	body, err := json.Marshal(perplexityRequest{Texts: texts})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	var out perplexityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Perplexities) != len(texts) {
		return nil, fmt.Errorf("server returned %d perplexities for %d texts", len(out.Perplexities), len(texts))
	}
	return out.Perplexities, nil
}

func (c *Client) ScoreCandidates(ctx context.Context, texts []string) ([]float64, error) {
	return c.Perplexity(ctx, texts)
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
