// Package oracle implements a bit-exact HTTP client for the upstream
// automaton oracle (register/select/explore/guess): a context-scoped
// *http.Client with a fixed timeout, the team token carried as the "id"
// field of each request body, the raw response body read in full, and a
// typed status-code check before decoding it.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/icfp25/aedificium/pkg/apperr"
	"github.com/icfp25/aedificium/pkg/automaton"
)

// Client talks to the oracle's register/select/explore/guess endpoints.
// The team token (id) is held here and never exposed to callers of the
// orchestrator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	id         string
	logger     *slog.Logger
}

// New constructs a Client. id is the team token returned by Register (or
// configured directly); baseURL has no trailing slash requirement.
func New(baseURL, id string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		id:         id,
		logger:     slog.Default(),
	}
}

// SetID updates the team token, e.g. after Register.
func (c *Client) SetID(id string) { c.id = id }

type registerRequest struct {
	Name string `json:"name"`
}

type registerResponse struct {
	ID string `json:"id"`
}

// Register obtains a team token from the oracle.
func (c *Client) Register(ctx context.Context, name string) (string, error) {
	var resp registerResponse
	if err := c.call(ctx, "/register", registerRequest{Name: name}, &resp); err != nil {
		return "", err
	}
	c.id = resp.ID
	return resp.ID, nil
}

type selectRequest struct {
	ID          string `json:"id"`
	ProblemName string `json:"problemName"`
}

type selectResponse struct {
	ProblemName string `json:"problemName"`
}

// Select requests a new problem instance, returning the raw response bytes
// for durable logging alongside the decoded response.
func (c *Client) Select(ctx context.Context, problemName string) (rawResp []byte, resp selectResponse, err error) {
	rawResp, err = c.callRaw(ctx, "/select", selectRequest{ID: c.id, ProblemName: problemName}, &resp)
	return rawResp, resp, err
}

type exploreRequest struct {
	ID    string   `json:"id"`
	Plans []string `json:"plans"`
}

// ExploreResponse is the oracle's raw explore response shape.
type ExploreResponse struct {
	Results    [][]int `json:"results"`
	QueryCount int     `json:"queryCount"`
}

// Explore submits a batch of route-plan strings and returns the raw
// request/response bytes (for durable logging) alongside the decoded
// response.
func (c *Client) Explore(ctx context.Context, plans []string) (rawReq, rawResp []byte, resp ExploreResponse, err error) {
	req := exploreRequest{ID: c.id, Plans: plans}
	rawReq, err = json.Marshal(req)
	if err != nil {
		return nil, nil, ExploreResponse{}, apperr.Wrap("oracle.Explore", apperr.KindInvalidInput, "marshal request: %w", err)
	}
	rawResp, err = c.post(ctx, "/explore", rawReq, &resp)
	return rawReq, rawResp, resp, err
}

type guessRequest struct {
	ID  string              `json:"id"`
	Map automaton.WireModel `json:"map"`
}

// GuessResponse is the oracle's raw guess response shape.
type GuessResponse struct {
	Correct bool `json:"correct"`
}

// Guess submits a candidate map and returns the raw request/response bytes
// alongside the decoded response.
func (c *Client) Guess(ctx context.Context, m automaton.WireModel) (rawReq, rawResp []byte, resp GuessResponse, err error) {
	req := guessRequest{ID: c.id, Map: m}
	rawReq, err = json.Marshal(req)
	if err != nil {
		return nil, nil, GuessResponse{}, apperr.Wrap("oracle.Guess", apperr.KindInvalidInput, "marshal request: %w", err)
	}
	rawResp, err = c.post(ctx, "/guess", rawReq, &resp)
	return rawReq, rawResp, resp, err
}

// call is a convenience wrapper around callRaw for callers that don't need
// the raw bytes.
func (c *Client) call(ctx context.Context, path string, body, out any) error {
	_, err := c.callRaw(ctx, path, body, out)
	return err
}

func (c *Client) callRaw(ctx context.Context, path string, body, out any) (rawResp []byte, err error) {
	rawReq, err := json.Marshal(body)
	if err != nil {
		return nil, apperr.Wrap("oracle.call", apperr.KindInvalidInput, "marshal request: %w", err)
	}
	return c.post(ctx, path, rawReq, out)
}

// post performs the HTTP round-trip for endpoint, returning the raw
// response body so callers can persist it verbatim for durable logging.
func (c *Client) post(ctx context.Context, path string, rawReq []byte, out any) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(rawReq))
	if err != nil {
		return nil, apperr.Wrap("oracle.post", apperr.KindUpstream, "create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("oracle request failed", "path", path, "error", err)
		return nil, apperr.Wrap("oracle.post", apperr.KindUpstream, "%s: %w", path, err)
	}
	defer resp.Body.Close()

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap("oracle.post", apperr.KindUpstream, "read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return rawResp, apperr.Wrap("oracle.post", apperr.KindUpstream,
			"%s: oracle returned HTTP %d: %s", path, resp.StatusCode, string(rawResp))
	}

	if out != nil {
		if err := json.Unmarshal(rawResp, out); err != nil {
			return rawResp, apperr.Wrap("oracle.post", apperr.KindUpstream, "%s: decode response: %w", path, err)
		}
	}
	return rawResp, nil
}

