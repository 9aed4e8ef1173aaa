package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"

	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/cache"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
	"github.com/matzehuels/museummap/pkg/httputil"
)

// FallbackReply is the answer when the follow-up endpoint returns neither
// "output" nor "reply".
const FallbackReply = "Sorry, I could not process that."

// Defaults.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultAttempts   = 2
	DefaultRetryDelay = 500 * time.Millisecond
)

// Config configures a [Client].
type Config struct {
	// URL is the describe webhook.
	URL string

	// FollowupURL is the follow-up question endpoint. Empty means URL.
	FollowupURL string

	// Timeout bounds each request attempt.
	Timeout time.Duration

	// Attempts is the number of tries for transient failures.
	Attempts int

	// RetryDelay is the first backoff delay; it doubles per attempt.
	RetryDelay time.Duration

	// CacheTTL is how long Describe results are cached. Zero never expires.
	CacheTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.FollowupURL == "" {
		c.FollowupURL = c.URL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	return c
}

// Client calls the enrichment webhook.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithCache caches Describe results in ca.
func WithCache(ca cache.Cache, keyer cache.Keyer) Option {
	return func(c *Client) { c.cache, c.keyer = ca, keyer }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

// New creates a client. The URLs must use http or https.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := mmerrors.ValidateURL(cfg.URL); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if err := mmerrors.ValidateURL(cfg.FollowupURL); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{},
		cache:  cache.NewNullCache(),
		keyer:  cache.NewDefaultKeyer(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "enrich-webhook",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed", "name", name, "from", from, "to", to)
		},
		// Client errors from the webhook do not mean it is down.
		IsSuccessful: func(err error) bool {
			var se *statusError
			return err == nil || (errors.As(err, &se) && se.status < 500)
		},
	})
	return c, nil
}

// URL returns the describe webhook URL.
func (c *Client) URL() string { return c.cfg.URL }

// Result is a cleaned describe response.
type Result struct {
	// Status is the upstream status code.
	Status int `json:"status"`

	// Body is the cleaned response, an object or an array of objects.
	Body json.RawMessage `json:"body"`
}

// Output returns the first "output" string in the body: the object's own,
// or the first array element's.
func (r *Result) Output() (string, bool) {
	var v any
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return "", false
	}
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return "", false
		}
		v = arr[0]
	}
	if m, ok := v.(map[string]any); ok {
		s, ok := m["output"].(string)
		return s, ok
	}
	return "", false
}

// Draft parses the first output as an artifact draft.
func (r *Result) Draft() (artifact.Draft, error) {
	out, ok := r.Output()
	if !ok {
		return artifact.Draft{}, mmerrors.New(mmerrors.ErrCodeInvalidFormat, "webhook response has no output field")
	}
	return ParseDraft(out)
}

// Describe sends recognized label text to the webhook.
func (c *Client) Describe(ctx context.Context, message string) (*Result, error) {
	if err := mmerrors.ValidateMessage(message); err != nil {
		return nil, err
	}

	key := c.keyer.DescribeKey(message)
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("describe cache read failed", "error", err)
	} else if ok {
		var res Result
		if err := json.Unmarshal(data, &res); err == nil {
			c.logger.Debug("describe cache hit", "key", key)
			return &res, nil
		}
	}

	c.logger.Info("forwarding to webhook", "url", c.cfg.URL, "chars", len(message))
	resp, err := c.post(ctx, c.cfg.URL, map[string]string{"message": message})
	if err != nil {
		return nil, err
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeUpstream, err, "webhook returned invalid JSON")
	}
	cleaned, err := json.Marshal(cleanBody(body))
	if err != nil {
		return nil, mmerrors.Wrap(mmerrors.ErrCodeInternal, err, "encode cleaned response")
	}
	res := &Result{Status: resp.StatusCode, Body: cleaned}

	if data, err := json.Marshal(res); err == nil {
		if err := c.cache.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
			c.logger.Warn("describe cache write failed", "error", err)
		}
	}
	return res, nil
}

// Ask sends a follow-up question and returns the answer text.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if err := mmerrors.ValidateMessage(question); err != nil {
		return "", err
	}
	payload := map[string]any{"body": map[string]string{"text": question}}
	resp, err := c.post(ctx, c.cfg.FollowupURL, payload)
	if err != nil {
		return "", err
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return FallbackReply, nil
	}
	if arr, ok := body.([]any); ok && len(arr) > 0 {
		body = arr[0]
	}
	if m, ok := body.(map[string]any); ok {
		for _, k := range []string{"output", "reply"} {
			if s, ok := m[k].(string); ok && s != "" {
				return s, nil
			}
		}
	}
	return FallbackReply, nil
}

// post runs one webhook call through the breaker and the retry loop and
// maps failures to structured errors.
func (c *Client) post(ctx context.Context, url string, payload any) (*httputil.Response, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		var resp *httputil.Response
		err := httputil.Retry(ctx, c.cfg.Attempts, c.cfg.RetryDelay, func() error {
			r, err := c.attempt(ctx, url, payload)
			resp = r
			return err
		})
		return resp, err
	})
	if err != nil {
		return nil, c.classify(url, err)
	}
	return out.(*httputil.Response), nil
}

func (c *Client) attempt(ctx context.Context, url string, payload any) (*httputil.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := httputil.PostJSON(ctx, c.http, url, payload)
	if err != nil {
		if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, httputil.Retryable(err)
		}
		return nil, err
	}
	if !resp.OK() {
		se := &statusError{status: resp.StatusCode, body: resp.Body}
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return nil, httputil.Retryable(se)
		}
		return nil, se
	}
	return resp, nil
}

func (c *Client) classify(url string, err error) error {
	var se *statusError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &se):
		c.logger.Error("webhook error response", "status", se.status)
		e := mmerrors.Upstream(se.status, "webhook returned error status %d", se.status)
		e.Cause = se
		return e
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return mmerrors.Wrap(mmerrors.ErrCodeUpstreamUnavailable, err, "webhook temporarily unavailable after repeated failures")
	case errors.Is(err, syscall.ECONNREFUSED):
		c.logger.Error("webhook appears to be offline or the URL is incorrect", "url", url)
		return mmerrors.Wrap(mmerrors.ErrCodeUpstreamUnavailable, err, "could not connect to the webhook at %s; is it running on the correct port?", url)
	case errors.As(err, &dnsErr):
		return mmerrors.Wrap(mmerrors.ErrCodeUpstreamUnavailable, err, "webhook hostname not found: %s", url)
	case errors.Is(err, context.DeadlineExceeded):
		return mmerrors.Wrap(mmerrors.ErrCodeTimeout, err, "request to webhook timed out (%s)", c.cfg.Timeout)
	default:
		return mmerrors.Wrap(mmerrors.ErrCodeNetwork, err, "failed to communicate with the webhook")
	}
}

type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return http.StatusText(e.status)
}

// Details returns the upstream response body carried by err, decoded as JSON
// when possible. It returns nil for errors without a response.
func Details(err error) any {
	var se *statusError
	if !errors.As(err, &se) {
		return nil
	}
	var v any
	if json.Unmarshal(se.body, &v) == nil {
		return v
	}
	return string(se.body)
}
