package client

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

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/zeebo/xxh3"

	"github.com/nagarik-sahayak/sahayak"
)

const (
	defaultTimeout = 3 * time.Second
	userAgent      = "sahayak-client/1.0"
)

// APIError is a non-success answer of the server.
type APIError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("sahayak: %d %s (field %s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("sahayak: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
}

// listEntry is a cached list response with the ETag it was served with.
type listEntry struct {
	etag       string
	complaints []sahayak.Complaint
}

func New(baseURL string) *Client {
	httpClient := http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:  &httpClient,
		cache:   cache.New(10*time.Minute, 15*time.Minute),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	return http.DefaultTransport.RoundTrip(req)
}

func (c *Client) CreateComplaint(ctx context.Context, payload sahayak.ComplaintPayload) (sahayak.CreateComplaintResponse, error) {
	var response sahayak.CreateComplaintResponse
	_, err := c.HttpRequest(ctx, http.MethodPost, "/complaints", payload, nil, &response)
	if err != nil {
		return sahayak.CreateComplaintResponse{}, errors.Wrap(err, "failed to create complaint")
	}
	return response, nil
}

// ListComplaints revalidates a cached result with If-None-Match. Cache keys are the
// xxh3 hash of the encoded filter.
func (c *Client) ListComplaints(ctx context.Context, filter sahayak.ListFilter) ([]sahayak.Complaint, error) {
	query := filter.Query().Encode()
	cacheKey := fmt.Sprintf("list:%016x", xxh3.HashString(query))

	header := http.Header{}
	var cached *listEntry
	if x, found := c.cache.Get(cacheKey); found {
		cached = x.(*listEntry)
		header.Set("If-None-Match", cached.etag)
	}

	path := "/complaints"
	if query != "" {
		path += "?" + query
	}

	var complaints []sahayak.Complaint
	resp, err := c.HttpRequest(ctx, http.MethodGet, path, nil, header, &complaints)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list complaints")
	}
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		return clone(cached.complaints), nil
	}

	if etag := resp.Header.Get("ETag"); etag != "" {
		c.cache.Set(cacheKey, &listEntry{etag: etag, complaints: clone(complaints)}, cache.DefaultExpiration)
	}
	return complaints, nil
}

func (c *Client) GetComplaint(ctx context.Context, id string) (sahayak.Complaint, error) {
	var complaint sahayak.Complaint
	_, err := c.HttpRequest(ctx, http.MethodGet, "/complaints/"+url.PathEscape(id), nil, nil, &complaint)
	if err != nil {
		return sahayak.Complaint{}, errors.Wrapf(err, "failed to get complaint %s", id)
	}
	return complaint, nil
}

func (c *Client) AppendStatusUpdate(ctx context.Context, id string, update sahayak.StatusUpdateRequest) (sahayak.Complaint, error) {
	var complaint sahayak.Complaint
	_, err := c.HttpRequest(ctx, http.MethodPost, "/complaints/"+url.PathEscape(id)+"/updates", update, nil, &complaint)
	if err != nil {
		return sahayak.Complaint{}, errors.Wrapf(err, "failed to update complaint %s", id)
	}
	return complaint, nil
}

// HttpRequest sends body as JSON and decodes a 2xx answer into response.
// A 304 answer is returned as is with response untouched.
func (c *Client) HttpRequest(ctx context.Context, method, path string, body any, header http.Header, response any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to perform request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return resp, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Field = payload.Field
		}
		return resp, apiErr
	}

	if response != nil {
		err = json.NewDecoder(resp.Body).Decode(response)
		if err != nil {
			return resp, errors.Wrap(err, "failed to decode response")
		}
	}
	return resp, nil
}

func clone(complaints []sahayak.Complaint) []sahayak.Complaint {
	out := make([]sahayak.Complaint, len(complaints))
	copy(out, complaints)
	return out
}
