package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	apperrors "github.com/jrsteele09/docflow-admin/internal/errors"
)

const (
	HeaderLocale    = "Hl"
	HeaderRequestID = "X-Request-ID"
)

// TokenSource supplies the current access token.
type TokenSource interface {
	AccessToken() string
}

// LocaleProvider supplies the UI locale sent in the Hl header.
type LocaleProvider interface {
	CurrentLocale() string
}

// Refresher obtains a fresh access token after a 401.
type Refresher interface {
	Await(ctx context.Context) (string, error)
}

// Client executes backend requests.
type Client struct {
	baseURL       string
	version       string
	http          *http.Client
	tokens        TokenSource
	locale        LocaleProvider
	localeMap     map[string]string
	defaultLocale string
	refresher     Refresher
	logger        zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLocale sets the locale provider and the UI locale to backend locale map.
func WithLocale(provider LocaleProvider, localeMap map[string]string, defaultLocale string) Option {
	return func(c *Client) {
		c.locale = provider
		if len(localeMap) > 0 {
			c.localeMap = localeMap
		}
		if defaultLocale != "" {
			c.defaultLocale = defaultLocale
		}
	}
}

func WithRefresher(r Refresher) Option {
	return func(c *Client) {
		c.refresher = r
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// DefaultLocaleMap maps UI locales to the backend Hl values.
func DefaultLocaleMap() map[string]string {
	return map[string]string{"uz": "uz", "ru": "ru", "en": "en"}
}

func New(baseURL, version string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		version:       strings.Trim(version, "/"),
		http:          &http.Client{Timeout: 30 * time.Second},
		tokens:        tokens,
		localeMap:     DefaultLocaleMap(),
		defaultLocale: "uz",
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetRefresher wires the refresh coordinator after construction.
func (c *Client) SetRefresher(r Refresher) {
	c.refresher = r
}

// Locale returns the Hl value for the current UI locale.
func (c *Client) Locale() string {
	lang := ""
	if c.locale != nil {
		lang = c.locale.CurrentLocale()
	}
	if hl, ok := c.localeMap[lang]; ok {
		return hl
	}
	if hl, ok := c.localeMap[c.defaultLocale]; ok {
		return hl
	}
	return c.defaultLocale
}

// Do executes req. A 401 on a non-open request is handed to the Refresher and
// the request is replayed once with the new token.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	body, contentType, err := encodeBody(req.Data)
	if err != nil {
		return nil, apperrors.Validation(err, "invalid request body")
	}

	token := ""
	if !req.Open && c.tokens != nil {
		token = c.tokens.AccessToken()
	}

	resp, err := c.execute(ctx, req, body, contentType, token, false)
	if err == nil || req.Open || apperrors.KindOf(err) != apperrors.KindAuth || c.refresher == nil {
		return resp, err
	}

	fresh, refreshErr := c.refresher.Await(ctx)
	if refreshErr != nil && ctx.Err() != nil {
		// The caller gave up waiting; the refresh itself is still running.
		return nil, apperrors.Network(ctx.Err())
	}
	if refreshErr != nil {
		return nil, &apperrors.APIError{
			Kind:    apperrors.KindAuth,
			Status:  http.StatusUnauthorized,
			Message: apperrors.StatusMessage(http.StatusUnauthorized),
			Cause:   refreshErr,
		}
	}
	return c.execute(ctx, req, body, contentType, fresh, true)
}

func (c *Client) execute(ctx context.Context, req Request, body []byte, contentType, token string, replay bool) (*Response, error) {
	target := c.buildURL(req)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, apperrors.Validation(err, "invalid request")
	}

	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	// A caller supplied Authorization wins, except on replay.
	if token != "" && (replay || httpReq.Header.Get("Authorization") == "") {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}
	httpReq.Header.Set(HeaderLocale, c.Locale())
	requestID := httpReq.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		httpReq.Header.Set(HeaderRequestID, requestID)
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Err(err).Str("method", req.Method).Str("path", req.Path).Str("request_id", requestID).Msg("request failed")
		return nil, apperrors.Network(err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.Network(err)
	}
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("request")

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, apperrors.FromStatus(httpResp.StatusCode, errorMessage(data))
	}
	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

// errorMessage extracts the backend's message field from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}
