// Package provider is the client for the C More / Katsomo backend API. It
// owns the HTTP session, maps service error envelopes to typed errors and
// hands raw page, search and stream JSON to the layers above.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/coocood/freecache"
	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/net/publicsuffix"

	"cmore/internal/config"
	"cmore/internal/httputil"
	"cmore/internal/media"
)

const (
	searchPageSize = "100"
	targetPageSize = "100"

	// pathCacheSize is the freecache arena for the path index. Entries must
	// stay under 1/1024 of it.
	pathCacheSize = 4 * 1024 * 1024
	// pathCacheTTL is in seconds.
	pathCacheTTL = 300
)

// CookieJar is a cookie jar that can be written to durable storage.
type CookieJar interface {
	http.CookieJar
	Save() error
}

// Client talks to the backend on behalf of one session.
type Client struct {
	http    *resty.Client
	jar     CookieJar
	paths   *freecache.Cache
	dataDir string

	configURL string
	loginURL  string

	mu      sync.Mutex
	service *ServiceConfig
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the hardened default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// WithCookieJar makes the session durable. Without it cookies live only as
// long as the Client.
func WithCookieJar(jar CookieJar) Option {
	return func(c *Client) { c.jar = jar }
}

// WithServiceConfigURL sets where the service configuration is downloaded from.
func WithServiceConfigURL(u string) Option {
	return func(c *Client) { c.configURL = u }
}

// WithLoginURL sets the authentication endpoint.
func WithLoginURL(u string) Option {
	return func(c *Client) { c.loginURL = u }
}

// New creates a client that caches the service configuration in dataDir.
func New(dataDir string, opts ...Option) *Client {
	c := &Client{
		paths:     freecache.NewCache(pathCacheSize),
		dataDir:   dataDir,
		configURL: config.DefaultServiceConfigURL,
		loginURL:  config.DefaultLoginURL,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = resty.NewWithClient(httputil.NewClient())
	}
	c.http.SetHeader("User-Agent", httputil.UserAgent).
		SetLogger(restyLogger{})

	if c.jar != nil {
		c.http.SetCookieJar(c.jar)
	} else {
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		c.http.SetCookieJar(jar)
	}

	c.http.OnAfterResponse(c.afterResponse)

	return c
}

// afterResponse persists the cookie jar after every response, before the
// body is inspected, so failed requests still keep their cookies.
func (c *Client) afterResponse(_ *resty.Client, resp *resty.Response) error {
	log.Debugf("%s %s -> %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
	if c.jar == nil {
		return nil
	}
	if err := c.jar.Save(); err != nil {
		return fmt.Errorf("saving cookies: %w", err)
	}
	return nil
}

// do executes a request and returns the body once it passed envelope
// inspection.
func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, form map[string]string) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if form != nil {
		req.SetFormData(form)
	}

	resp, err := req.Execute(method, rawURL)
	if err != nil {
		if resp == nil || resp.RawResponse == nil {
			log.Errorf("request failed: %s %s: %v", method, rawURL, err)
			return nil, &TransportError{Method: method, URL: rawURL, Err: err}
		}
		return nil, err
	}

	body := resp.Body()
	if err := CheckEnvelope(body); err != nil {
		log.Debugf("service error from %s: %v", rawURL, err)
		return nil, err
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, v any) error {
	body, err := c.do(ctx, http.MethodGet, rawURL, query, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}

// FetchPage fetches a page by absolute data URL or by path relative to the
// static API.
func (c *Client) FetchPage(ctx context.Context, pathOrURL string) (json.RawMessage, error) {
	target := pathOrURL
	if !isAbsolute(pathOrURL) {
		svc, err := c.ServiceConfig(ctx)
		if err != nil {
			return nil, err
		}
		target = httputil.JoinPath(svc.StaticAPI, pathOrURL)
	}
	if err := httputil.ValidateURL(target); err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	var page json.RawMessage
	if err := c.getJSON(ctx, target, nil, &page); err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return page, nil
}

// FetchTree returns the main page tree.
func (c *Client) FetchTree(ctx context.Context) ([]media.MainPage, error) {
	raw, err := c.FetchPage(ctx, "/tree")
	if err != nil {
		return nil, err
	}
	var pages []media.MainPage
	if err := json.Unmarshal(raw, &pages); err != nil {
		return nil, fmt.Errorf("decoding page tree: %w", err)
	}
	return pages, nil
}

// FetchTargetPath resolves target against the path index and returns the
// result list of the matching data URL, forwarding the target's sort order.
func (c *Client) FetchTargetPath(ctx context.Context, target string) (json.RawMessage, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parsing target %q: %w", target, err)
	}

	entry, err := c.lookupPath(ctx, byPath, parsed.Path)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for _, s := range parsed.Query()["sort"] {
		query.Add("sort", s)
	}
	query.Set("size", targetPageSize)

	var data struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.getJSON(ctx, entry.DataURL, query, &data); err != nil {
		return nil, fmt.Errorf("fetching target %s: %w", target, err)
	}
	if data.Result == nil {
		return nil, fmt.Errorf("target %s: response has no result", target)
	}
	return data.Result, nil
}

// Search returns matching assets followed by matching categories.
func (c *Client) Search(ctx context.Context, query string) ([]json.RawMessage, error) {
	svc, err := c.ServiceConfig(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("size", searchPageSize)

	var data struct {
		Assets     []json.RawMessage `json:"assets"`
		Categories []json.RawMessage `json:"categories"`
	}
	if err := c.getJSON(ctx, svc.DynamicAPI+"/search", params, &data); err != nil {
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	results := make([]json.RawMessage, 0, len(data.Assets)+len(data.Categories))
	results = append(results, data.Assets...)
	return append(results, data.Categories...), nil
}

// Login authenticates the session. The backend answers with cookies that
// the jar keeps.
func (c *Client) Login(ctx context.Context, username, password string) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, c.loginURL, nil, map[string]string{
		"username":   username,
		"password":   password,
		"rememberMe": "true",
	})
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	log.Infof("logged in as %s", username)
	return body, nil
}

// FetchStream returns the raw playback document of an asset.
func (c *Client) FetchStream(ctx context.Context, assetID string) (json.RawMessage, error) {
	if err := httputil.ValidateID(assetID); err != nil {
		return nil, fmt.Errorf("invalid asset ID: %w", err)
	}

	svc, err := c.ServiceConfig(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/web/asset/%s/play.json", svc.VimondAPI, assetID)
	var raw json.RawMessage
	if err := c.getJSON(ctx, endpoint, url.Values{"protocol": {"MPD"}}, &raw); err != nil {
		return nil, fmt.Errorf("fetching stream for %s: %w", assetID, err)
	}
	return raw, nil
}

// DynamicAPI returns the base URL of the dynamic API, used to build
// category, favorites and link listings.
func (c *Client) DynamicAPI(ctx context.Context) (string, error) {
	svc, err := c.ServiceConfig(ctx)
	if err != nil {
		return "", err
	}
	return svc.DynamicAPI, nil
}

func isAbsolute(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// restyLogger routes resty's own diagnostics into the application log.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...any) { log.Errorf(format, v...) }
func (restyLogger) Warnf(format string, v ...any)  { log.Warnf(format, v...) }
func (restyLogger) Debugf(format string, v ...any) { log.Debugf(format, v...) }
