// Package datasheet provides HTTP client for records of APITable datasheets (Fusion API).
package datasheet

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/datasheet-tools/settings-generator/internal/pkg/build"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
)

const (
	DefaultHost           = "https://apitable.com/fusion/v1"
	DefaultPageSize       = 1000
	RequestTimeout        = 60 * time.Second
	HTTPTimeout           = 30 * time.Second
	IdleConnTimeout       = 30 * time.Second
	TLSHandshakeTimeout   = 10 * time.Second
	ResponseHeaderTimeout = 30 * time.Second
	ExpectContinueTimeout = 2 * time.Second
	KeepAlive             = 20 * time.Second
	MaxIdleConns          = 32
	RetryCount            = 5
	RetryWaitTime         = 100 * time.Millisecond
	RetryWaitTimeMax      = 3 * time.Second
)

type Client struct {
	logger   log.Logger
	resty    *resty.Client
	pageSize int
}

type config struct {
	transport        http.RoundTripper
	verbose          bool
	pageSize         int
	retryCount       int
	retryWaitTime    time.Duration
	retryWaitTimeMax time.Duration
}

type Option func(c *config)

// WithTransport replaces the default HTTP transport, for example by a mocked transport in tests.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *config) {
		c.transport = transport
	}
}

// WithVerbose logs full requests and responses, secrets are hidden.
func WithVerbose(verbose bool) Option {
	return func(c *config) {
		c.verbose = verbose
	}
}

func WithPageSize(pageSize int) Option {
	return func(c *config) {
		c.pageSize = pageSize
	}
}

func WithRetry(count int, waitTime, waitTimeMax time.Duration) Option {
	return func(c *config) {
		c.retryCount = count
		c.retryWaitTime = waitTime
		c.retryWaitTimeMax = waitTimeMax
	}
}

func NewClient(logger log.Logger, host, token string, opts ...Option) *Client {
	cfg := config{
		transport:        createTransport(),
		pageSize:         DefaultPageSize,
		retryCount:       RetryCount,
		retryWaitTime:    RetryWaitTime,
		retryWaitTimeMax: RetryWaitTimeMax,
	}
	for _, o := range opts {
		o(&cfg)
	}

	if host == "" {
		host = DefaultHost
	}

	logger = logger.WithComponent("http")
	r := resty.New()
	r.SetLogger(&restyLogger{logger: logger})
	r.SetBaseURL(strings.TrimRight(host, "/"))
	r.SetHeader("User-Agent", fmt.Sprintf("settings-generator/%s", build.BuildVersion))
	r.SetHeader("Accept", "application/json")
	r.SetAuthToken(token)
	r.SetTimeout(RequestTimeout)
	r.SetRetryCount(cfg.retryCount)
	r.SetRetryWaitTime(cfg.retryWaitTime)
	r.SetRetryMaxWaitTime(cfg.retryWaitTimeMax)
	r.SetTransport(cfg.transport)
	r.AddRetryCondition(createRetry())

	c := &Client{logger: logger, resty: r, pageSize: cfg.pageSize}
	c.setupLogs(cfg.verbose)
	return c
}

func (c *Client) Host() string {
	return c.resty.BaseURL
}

// createRetry - retry on network errors and on the defined HTTP status codes.
func createRetry() resty.RetryConditionFunc {
	return func(response *resty.Response, err error) bool {
		// On network errors - except hostname not found
		if err != nil && (response == nil || response.StatusCode() == 0) {
			return !strings.Contains(err.Error(), "no such host")
		}

		switch response.StatusCode() {
		case
			http.StatusRequestTimeout,
			http.StatusConflict,
			http.StatusLocked,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
}

func createTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   HTTPTimeout,
		KeepAlive: KeepAlive,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          MaxIdleConns,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
		ExpectContinueTimeout: ExpectContinueTimeout,
		MaxIdleConnsPerHost:   MaxIdleConns,
	}
}

func (c *Client) setupLogs(verbose bool) {
	// Debug full request and response if verbose = true
	// Secrets are hidden, see restyLogger
	if verbose {
		c.resty.SetDebug(true)
		c.resty.SetDebugBodyLimit(2 * 1024)
	}

	c.resty.AddRetryHook(func(res *resty.Response, err error) {
		if res == nil || res.Request == nil {
			return
		}
		c.logger.Warnf(res.Request.Context(), "%s | Retrying %dx ...", responseToLog(res, err), res.Request.Attempt)
	})
	c.resty.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		if res.IsSuccess() {
			c.logger.Debug(res.Request.Context(), responseToLog(res, nil))
		}
		return nil
	})
}

func responseToLog(res *resty.Response, err error) string {
	req := res.Request
	if err != nil && res.StatusCode() == 0 {
		return fmt.Sprintf("%s %s | %s", req.Method, req.URL, err)
	}
	return fmt.Sprintf("%s %s | %d | %s", req.Method, req.URL, res.StatusCode(), res.Time())
}

// requestError converts an unsuccessful HTTP response to an error.
func requestError(res *resty.Response, err error) error {
	if res == nil || res.Request == nil {
		return errors.PrefixError(err, "request failed")
	}
	req := res.Request
	if err != nil {
		return errors.PrefixErrorf(err, `request "%s %s" failed`, req.Method, req.URL)
	}
	return errors.Errorf(`request "%s %s" failed: %d %s`, req.Method, req.URL, res.StatusCode(), http.StatusText(res.StatusCode()))
}
