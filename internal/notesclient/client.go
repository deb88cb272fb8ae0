package notesclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/diarynotes/internal/telemetry/tracing"
)

const defaultTimeout = 15 * time.Second

// Note as returned by the diary backend.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnmarshalJSON accepts both `id` and the legacy `_id`.
func (n *Note) UnmarshalJSON(b []byte) error {
	type noteAlias Note
	var raw struct {
		noteAlias
		LegacyID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*n = Note(raw.noteAlias)
	if n.ID == "" {
		n.ID = raw.LegacyID
	}
	return nil
}

type NoteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type FieldError struct {
	Type     string `json:"type"`
	Value    any    `json:"value,omitempty"`
	Msg      string `json:"msg"`
	Path     string `json:"path,omitempty"`
	Location string `json:"location"`
}

// APIError is any non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []FieldError
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	case len(e.Fields) > 0:
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Msg)
		}
		return fmt.Sprintf("%d: %s", e.StatusCode, strings.Join(msgs, ", "))
	default:
		return fmt.Sprintf("%d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Client talks to the diary notes REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]Note, error) {
	var notes []Note
	if err := c.do(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []Note{}
	}
	return notes, nil
}

func (c *Client) Get(ctx context.Context, id string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodGet, notePath(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) Create(ctx context.Context, input NoteInput) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodPost, "/notes", input, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) Update(ctx context.Context, id string, input NoteInput) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodPut, notePath(id), input, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) Delete(ctx context.Context, id string) (*Note, error) {
	var note Note
	if err := c.do(ctx, http.MethodDelete, notePath(id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// Health returns the status reported by the backend, "OK" when healthy.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "notesClient.do")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("notes.path", path),
	)
	var err error
	defer func() { tracing.EndSpan(span, err) }()

	var reqBody io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			err = fmt.Errorf("marshal request: %w", marshalErr)
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("%s %s: %w", method, path, err)
		return err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warnf("close response body: %s", closeErr)
		}
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("read response: %w", err)
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = newAPIError(resp.StatusCode, respBytes)
		return err
	}

	if out == nil {
		return nil
	}
	if err = json.Unmarshal(respBytes, out); err != nil {
		err = fmt.Errorf("decode response: %w", err)
		return err
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Tracef("non-json error response [%d]: %s", status, body)
		return apiErr
	}
	apiErr.Message = payload.Message
	apiErr.Fields = payload.Errors
	return apiErr
}
