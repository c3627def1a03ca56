package apper

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
}

// Client is a RecordStore backed by the hosted HTTP API. It is built once and
// shared by every gateway call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	projectID  string
	publicKey  string
	logger     zerolog.Logger
}

var _ RecordStore = (*Client)(nil)

// NewClient constructs a client. A nil httpClient gets a default one using
// opts.Timeout.
func NewClient(httpClient *http.Client, opts Options, logger zerolog.Logger) *Client {
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		projectID:  opts.ProjectID,
		publicKey:  opts.PublicKey,
		logger:     logger,
	}
}

type getRequest struct {
	ID     any         `json:"id"`
	Params FetchParams `json:"params"`
}

func (c *Client) FetchRecords(ctx context.Context, table string, params FetchParams) (*Response, error) {
	return c.call(ctx, table, "fetch", params)
}

func (c *Client) GetRecordByID(ctx context.Context, table string, id any, params FetchParams) (*Response, error) {
	return c.call(ctx, table, "get", getRequest{ID: id, Params: params})
}

func (c *Client) CreateRecord(ctx context.Context, table string, params RecordsParams) (*Response, error) {
	return c.call(ctx, table, "create", params)
}

func (c *Client) UpdateRecord(ctx context.Context, table string, params RecordsParams) (*Response, error) {
	return c.call(ctx, table, "update", params)
}

func (c *Client) DeleteRecord(ctx context.Context, table string, params DeleteParams) (*Response, error) {
	return c.call(ctx, table, "delete", params)
}

func (c *Client) endpoint(table, op string) string {
	return fmt.Sprintf("%s/projects/%s/tables/%s/%s",
		c.baseURL, url.PathEscape(c.projectID), url.PathEscape(table), op)
}

func (c *Client) call(ctx context.Context, table, op string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", op, err)
	}

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(table, op), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.publicKey)
	req.Header.Set("X-Apper-Project-Id", c.projectID)
	req.Header.Set("X-Request-Id", requestID)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("request_id", requestID).
			Str("table", table).
			Str("op", op).
			Msg("record store request failed")
		return nil, err
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("request_id", requestID).
		Str("table", table).
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("record store request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	var envelope Response
	decodeErr := json.Unmarshal(raw, &envelope)

	if resp.StatusCode >= 300 {
		if decodeErr == nil && envelope.Message != "" {
			envelope.Success = false
			return &envelope, nil
		}
		return nil, fmt.Errorf("apper: unexpected status %s", resp.Status)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, decodeErr)
	}
	return &envelope, nil
}
