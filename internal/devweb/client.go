package devweb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/morikuni/failure"

	"github.com/glabrego/devwebfeed/internal/posts"
)

const (
	TransportError failure.StringCode = "TransportError"
	BackendError   failure.StringCode = "BackendError"
	DecodeError    failure.StringCode = "DecodeError"
)

const maxBodyBytes = 8 << 20

// MonthDoc is one month document of a year's post collection.
type MonthDoc struct {
	Month int          `json:"month"`
	Items []posts.Post `json:"items"`
}

type errorPayload struct {
	Error string `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// FetchPosts loads a post collection. A payload with an "error" field is a
// failure even when the status is 200.
func (c *Client) FetchPosts(ctx context.Context, path string, maxResults int) ([]posts.Post, error) {
	if maxResults > 0 {
		q := make(url.Values)
		q.Set("maxresults", strconv.Itoa(maxResults))
		path += "?" + q.Encode()
	}

	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var list []posts.Post
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, failure.Translate(err, DecodeError, failure.Context{"path": path}, failure.Message("decode posts response"))
	}
	return posts.NormalizeAll(list), nil
}

func (c *Client) ListYear(ctx context.Context, year, maxResults int) ([]posts.Post, error) {
	return c.FetchPosts(ctx, "/posts/"+strconv.Itoa(year), maxResults)
}

func (c *Client) ListTweets(ctx context.Context, handle string) ([]posts.Post, error) {
	return c.FetchPosts(ctx, "/tweets/"+url.PathEscape(handle), 0)
}

// ListMonths returns the month documents of a year, the source of the change feed.
func (c *Client) ListMonths(ctx context.Context, year int) ([]MonthDoc, error) {
	path := "/posts/" + strconv.Itoa(year) + "/months"
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	var docs []MonthDoc
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, failure.Translate(err, DecodeError, failure.Context{"path": path}, failure.Message("decode months response"))
	}
	for i := range docs {
		docs[i].Items = posts.NormalizeAll(docs[i].Items)
	}
	return docs, nil
}

// DeletePost removes url from the month document identified by year and month.
func (c *Client) DeletePost(ctx context.Context, year, month, postURL string) error {
	payload, err := json.Marshal(map[string]string{"url": postURL})
	if err != nil {
		return fmt.Errorf("encode delete payload: %w", err)
	}

	path := "/posts/" + url.PathEscape(year) + "/" + url.PathEscape(month)
	req, err := c.newRequest(ctx, http.MethodDelete, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return failure.Translate(err, TransportError, failure.Context{"path": path}, failure.Message("delete post request failed"))
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendFailure(path, resp.StatusCode, body)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, failure.Translate(err, TransportError, failure.Context{"path": path}, failure.Message("request failed"))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, failure.Translate(err, TransportError, failure.Context{"path": path}, failure.Message("read response body"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, backendFailure(path, resp.StatusCode, body)
	}
	if msg := payloadError(body); msg != "" {
		return nil, failure.New(BackendError, failure.Context{"path": path, "status": strconv.Itoa(resp.StatusCode)}, failure.Message(msg))
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	fullURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// payloadError extracts the "error" field of an object payload.
func payloadError(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var p errorPayload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return ""
	}
	return strings.TrimSpace(p.Error)
}

func backendFailure(path string, status int, body []byte) error {
	msg := payloadError(body)
	if msg == "" {
		msg = fmt.Sprintf("failed with status %d: %s", status, strings.TrimSpace(string(body)))
	}
	return failure.New(BackendError, failure.Context{"path": path, "status": strconv.Itoa(status)}, failure.Message(msg))
}
