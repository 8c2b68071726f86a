package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"unitables/internal/components/assert"
	"unitables/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/purell"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch = "client.fetch"
	report_client_cache = "client.cache"
)

// Fetcher retrieves the markup of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// NetworkError is returned for transport failures and non-2xx responses.
// StatusCode is 0 when no response was received.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type Options struct {
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	// RequestsPerSecond <= 0 disables rate limiting.
	RequestsPerSecond float64
	// CacheTTL <= 0 disables the markup cache.
	CacheTTL         time.Duration
	CacheSize        int
	UserAgent        string
	CloudflareBypass bool
	// Dump receives every http exchange, it can be nil.
	Dump telemetry.MessageOutput
}

func DefaultOptions() Options {
	return Options{
		Timeout:           time.Second * 30,
		RetryCount:        2,
		RetryWait:         time.Millisecond * 500,
		RequestsPerSecond: 2,
		CacheSize:         64,
		UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
		CloudflareBypass:  true,
	}
}

// Client is the resty backed Fetcher.
type Client struct {
	http  *resty.Client
	cache *expirable.LRU[string, string]
	tel   telemetry.API
}

func NewClient(tel telemetry.API, opts Options) *Client {
	assert.NotNil(tel)
	assert.Positive("timeout", opts.Timeout)

	tel = telemetry.NewScopedAPI("fetch", tel)

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	httpClient.SetTimeout(opts.Timeout)

	httpClient.SetRetryCount(opts.RetryCount)
	httpClient.SetRetryWaitTime(opts.RetryWait)
	httpClient.SetRetryMaxWaitTime(opts.RetryWait * 8)
	httpClient.AddRetryCondition(func(res *resty.Response, err error) bool {
		if err != nil {
			return true
		}
		return res.StatusCode() >= 500 || res.StatusCode() == http.StatusTooManyRequests
	})

	if opts.RequestsPerSecond > 0 {
		// burst >= 1 just means that no requests will be dropped
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel, opts.Dump)

	c := &Client{
		http: httpClient,
		tel:  tel,
	}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 64
		}
		c.cache = expirable.NewLRU[string, string](size, nil, opts.CacheTTL)
	}
	return c
}

func cacheKey(link string) string {
	normalized, err := purell.NormalizeURLString(
		link,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
	if err != nil {
		return link
	}
	return normalized
}

// Fetch performs a GET and returns the response body. Only the raw markup is
// ever cached, callers parse their own document from it.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	key := cacheKey(url)
	if c.cache != nil {
		if markup, ok := c.cache.Get(key); ok {
			c.tel.ReportDebug(report_client_cache, "hit", key)
			return markup, nil
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, err, url)
		return "", &NetworkError{URL: url, Err: err}
	}
	if !res.IsSuccess() {
		err := &NetworkError{
			URL:        url,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected response %q", res.Status()),
		}
		c.tel.ReportBroken(report_client_fetch, err)
		return "", err
	}

	markup := res.String()
	if c.cache != nil {
		c.cache.Add(key, markup)
	}
	return markup, nil
}
