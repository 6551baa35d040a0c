// Package upstream is the typed client for the third-party collection API
// that stores all tenant data. The API is JSON-over-HTTP with a few quirks
// the rest of the service never sees: list items may be JSON-encoded strings
// and records may carry Mongo extended-JSON wrappers. Callers get raw items
// back and run them through the normalize package.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/RishiKendai/hermes/internal/metrics"
)

// Client handles communication with the upstream collection API.
type Client struct {
	baseURL    string
	tenantID   string
	token      string
	httpClient *http.Client
}

// NewClient creates a new upstream API client. Every request carries the
// tenant header; the bearer token is attached when present.
func NewClient(baseURL, tenantID, token string) *Client {
	return &Client{
		baseURL:  baseURL,
		tenantID: tenantID,
		token:    token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CollectionPage is one page of a collection listing. Source items are either
// raw objects or JSON-encoded strings.
type CollectionPage struct {
	Source []any `json:"source"`
}

// EmailRequest is the payload for the bulk notification endpoint.
type EmailRequest struct {
	Candidates []string `json:"candidates"`
	Subject    string   `json:"subject"`
	Message    string   `json:"message"`
}

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RetrieveCollection fetches a single page of the named collection.
func (c *Client) RetrieveCollection(ctx context.Context, colName string, page, limit int, distinctField string) (*CollectionPage, error) {
	q := url.Values{}
	q.Set("ColName", colName)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if distinctField != "" {
		q.Set("distinct_field", distinctField)
	}

	body, err := c.do(ctx, http.MethodGet, "/retrievecollection?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var pageResp CollectionPage
	if err := json.Unmarshal(body, &pageResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal collection page: %w", err)
	}
	metrics.PagesFetched.WithLabelValues(colName).Inc()
	return &pageResp, nil
}

// CreateRecord inserts a new record into the named collection.
func (c *Client) CreateRecord(ctx context.Context, colName string, record any) error {
	q := url.Values{}
	q.Set("colname", colName)
	_, err := c.do(ctx, http.MethodPost, "/eCreateCol?"+q.Encode(), record)
	return err
}

// UpdateRecord applies a partial update. Only the changed fields go over the
// wire; the server timestamp field is stamped here so callers don't have to.
func (c *Client) UpdateRecord(ctx context.Context, colName, resourceID string, fields map[string]any) error {
	q := url.Values{}
	q.Set("ColName", colName)
	q.Set("resourceId", resourceID)

	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload["updatedAt"] = time.Now().UTC().Format(time.RFC3339)

	_, err := c.do(ctx, http.MethodPut, "/eUpdateColl?"+q.Encode(), payload)
	return err
}

// DeleteRecord hard-deletes a record.
func (c *Client) DeleteRecord(ctx context.Context, colName, resourceID string) error {
	q := url.Values{}
	q.Set("ColName", colName)
	q.Set("resourceId", resourceID)
	_, err := c.do(ctx, http.MethodDelete, "/eDeleteWCol?"+q.Encode(), nil)
	return err
}

// SendEmail dispatches a bulk notification to the given candidates.
func (c *Client) SendEmail(ctx context.Context, req *EmailRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/sendEmail", req)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-tenant-id", c.tenantID)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	metrics.UpstreamRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp apiError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("upstream error (status %d): %s - %s", resp.StatusCode, errResp.Error, errResp.Message)
		}
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
