// Package coleta is the Go client for the Coleta API: catalog and point
// reads, and the multipart submission pipeline used by registration forms.
package coleta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is an HTTP client for the Coleta API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient constructs a new API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// ListItems returns the item catalog.
func (c *Client) ListItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := c.get(ctx, "/items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListPoints returns the points matching the filter.
func (c *Client) ListPoints(ctx context.Context, filter Filter) ([]Point, error) {
	q := url.Values{}
	if filter.City != "" {
		q.Set("city", filter.City)
	}
	if filter.UF != "" {
		q.Set("uf", filter.UF)
	}
	if len(filter.ItemIDs) > 0 {
		q.Set("items", joinIDs(filter.ItemIDs))
	}

	path := "/points"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var points []Point
	if err := c.get(ctx, path, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetPoint returns one point with its accepted item titles. A missing id
// surfaces as ErrNotFound.
func (c *Client) GetPoint(ctx context.Context, id int64) (*PointDetail, error) {
	var detail PointDetail
	if err := c.get(ctx, fmt.Sprintf("/points/%d", id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreatePoint sends a registration as a single multipart POST: scalar fields
// as strings, item ids comma-joined under "items", the optional image under
// "image". On a 400 the returned error is a *ValidationError listing every
// violated field; network failures surface as *TransportError and are never
// retried here.
func (c *Client) CreatePoint(ctx context.Context, sub Submission) (*Point, error) {
	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/points", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var point Point
		if err := json.NewDecoder(resp.Body).Decode(&point); err != nil {
			return nil, fmt.Errorf("decode created point: %w", err)
		}
		return &point, nil

	case resp.StatusCode == http.StatusBadRequest:
		var vErr ValidationError
		if err := json.NewDecoder(resp.Body).Decode(&vErr); err != nil || len(vErr.Fields) == 0 {
			return nil, &TransportError{Status: resp.StatusCode}
		}
		return nil, &vErr

	default:
		io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{Status: resp.StatusCode}
	}
}

// encodeSubmission builds the multipart form body for a submission.
func encodeSubmission(sub Submission) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"name":      sub.Name,
		"email":     sub.Email,
		"whatsapp":  sub.Whatsapp,
		"latitude":  strconv.FormatFloat(sub.Latitude, 'f', -1, 64),
		"longitude": strconv.FormatFloat(sub.Longitude, 'f', -1, 64),
		"city":      sub.City,
		"uf":        sub.UF,
		"items":     joinIDs(sub.ItemIDs),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", name, err)
		}
	}

	if len(sub.Image) > 0 {
		name := sub.ImageName
		if name == "" {
			name = "image"
		}
		part, err := w.CreateFormFile("image", name)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(sub.Image); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	default:
		io.Copy(io.Discard, resp.Body)
		return &TransportError{Status: resp.StatusCode}
	}
}

// joinIDs renders item ids as the comma-separated wire format.
func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
