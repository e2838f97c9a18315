// Package openai implements sitevec.IngestionService on top of the OpenAI
// vector store API, using the official Go SDK.
package openai

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/sitevec"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultBaseURL is the root of the OpenAI REST API.
const DefaultBaseURL = "https://api.openai.com/v1"

// DefaultUploadConcurrency is the number of files uploaded in parallel
// within one batch.
const DefaultUploadConcurrency = 5

// DefaultPollInterval is the wait between batch status checks.
const DefaultPollInterval = time.Second

// Ensure Client implements sitevec.IngestionService at compile time.
var _ sitevec.IngestionService = (*Client)(nil)

// Client talks to the OpenAI vector store API.
type Client struct {
	apiKey            string
	sdk               openaisdk.Client
	opts              []option.RequestOption
	uploadConcurrency int
	pollInterval      time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.opts = append(c.opts, option.WithBaseURL(strings.TrimRight(u, "/")+"/"))
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.opts = append(c.opts, option.WithHTTPClient(hc))
	}
}

// WithMaxRetries sets how often the SDK retries failed requests.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.opts = append(c.opts, option.WithMaxRetries(n))
	}
}

// WithUploadConcurrency sets how many files of a batch upload in parallel.
func WithUploadConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.uploadConcurrency = n
		}
	}
}

// WithPollInterval sets the wait between batch status checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// NewClient creates a Client authenticating with apiKey. A missing key is
// reported on first use rather than here.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:            apiKey,
		opts:              []option.RequestOption{option.WithBaseURL(DefaultBaseURL + "/")},
		uploadConcurrency: DefaultUploadConcurrency,
		pollInterval:      DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sdk = openaisdk.NewClient(append(c.opts, option.WithAPIKey(apiKey))...)
	return c
}

// checkCredentials validates the configuration needed for any request.
func (c *Client) checkCredentials(targetID string) error {
	if c.apiKey == "" {
		return sitevec.Errorf(sitevec.EINVALID, "OpenAI API key required")
	}
	if targetID == "" {
		return sitevec.Errorf(sitevec.EINVALID, "vector store ID required")
	}
	return nil
}

// remoteError converts SDK API errors into *sitevec.RemoteError so callers
// see the status the remote reported. Other errors pass through.
func remoteError(err error) error {
	var apiErr *openaisdk.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	msg := apiErr.Message
	if msg == "" {
		msg = http.StatusText(apiErr.StatusCode)
	}
	return &sitevec.RemoteError{StatusCode: apiErr.StatusCode, Type: apiErr.Type, Message: msg}
}
