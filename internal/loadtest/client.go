package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Client talks to a running server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope mirrors the server's JSON response wrapper.
type envelope struct {
	Success     bool              `json:"success"`
	Data        json.RawMessage   `json:"data"`
	Message     string            `json:"message"`
	ErrorCode   string            `json:"errorCode"`
	FieldErrors map[string]string `json:"fieldErrors"`
}

// UploadResult is the part of an upload response the load test needs.
type UploadResult struct {
	SessionID   string
	ShotCount   int
	SkippedRows int
	FieldErrors int
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Upload posts s as a multipart form.
func (c *Client) Upload(ctx context.Context, s Sample) (UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{"title": s.Title, "location": s.Location, "source": string(s.Source)}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return UploadResult{}, err
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, s.Filename))
	h.Set("Content-Type", "text/csv")
	part, err := mw.CreatePart(h)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := part.Write(s.Data); err != nil {
		return UploadResult{}, err
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sessions/upload", &body)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		Session struct {
			ID        string `json:"id"`
			ShotCount int    `json:"shotCount"`
		} `json:"session"`
		SkippedRows int `json:"skippedRows"`
		FieldErrors int `json:"fieldErrors"`
	}
	status, err := c.do(req, &out)
	if err != nil {
		if status == http.StatusConflict {
			return UploadResult{}, fmt.Errorf("%w: %s", ErrDuplicate, s.Filename)
		}
		return UploadResult{}, err
	}
	return UploadResult{
		SessionID:   out.Session.ID,
		ShotCount:   out.Session.ShotCount,
		SkippedRows: out.SkippedRows,
		FieldErrors: out.FieldErrors,
	}, nil
}

// Stats fetches GET /api/sessions/{id}/stats.
func (c *Client) Stats(ctx context.Context, id string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/sessions/"+url.PathEscape(id)+"/stats", http.NoBody)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if _, err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a session.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/api/sessions/"+url.PathEscape(id), http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: delete %s: status %d", ErrRequest, id, resp.StatusCode)
	}
	return nil
}

// do sends req and decodes the envelope data into v.
func (c *Client) do(req *http.Request, v any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: status %d: %w",
			ErrRequest, req.Method, req.URL.Path, resp.StatusCode, err)
	}
	if !env.Success {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: %s: %s",
			ErrRequest, req.Method, req.URL.Path, env.ErrorCode, env.Message)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: decode %s: %w", ErrRequest, req.URL.Path, err)
	}
	return resp.StatusCode, nil
}
