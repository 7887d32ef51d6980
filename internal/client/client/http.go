package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cinecollection/internal/client/models"
	"github.com/dmitrijs2005/cinecollection/internal/common"
	"github.com/dmitrijs2005/cinecollection/internal/netx"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the API rooted at baseURL, e.g.
// "http://localhost:5000/api". A zero timeout means no per-request limit.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every request; "" sends none.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.UserView, error) {
	var out struct {
		User models.UserView `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ListEntries fetches one page. Zero page or limit leaves the choice to the
// server; an empty search is not sent.
func (c *HTTPClient) ListEntries(ctx context.Context, page, limit int, search string) (*models.EntryPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		q.Set("search", search)
	}

	var out models.EntryPage
	if err := c.do(ctx, http.MethodGet, "/entries", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, http.MethodGet, entryPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, in models.EntryInput) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, http.MethodPost, "/entries", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, id int64, in models.EntryInput) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, http.MethodPut, entryPath(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, entryPath(id), nil, nil, nil)
}

func (c *HTTPClient) PosterUpload(ctx context.Context, contentType string) (*models.PosterUpload, error) {
	body := map[string]string{"contentType": contentType}
	var out models.PosterUpload
	if err := c.do(ctx, http.MethodPost, "/entries/poster-upload", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPoster sends the image bytes straight to object storage using a
// slot obtained from PosterUpload.
func (c *HTTPClient) UploadPoster(ctx context.Context, up *models.PosterUpload, contentType string, data []byte) error {
	if up == nil || up.UploadURL == "" {
		return fmt.Errorf("%w: no upload url", ErrBadRequest)
	}
	if err := netx.UploadPresigned(ctx, c.hc, up.UploadURL, contentType, data); err != nil {
		return fmt.Errorf("poster upload: %w", err)
	}
	return nil
}

func entryPath(id int64) string {
	return "/entries/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.bearer(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+t)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = json.Unmarshal(raw, &eb)
		return newAPIError(resp.StatusCode, eb.Error)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
