// Package robotstxt implements sitevec.RobotsPolicy on top of
// github.com/temoto/robotstxt.
package robotstxt

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/sitevec"
	"github.com/temoto/robotstxt"
)

// DefaultAgent is the user agent token matched against robots.txt groups.
const DefaultAgent = "sitevec"

const maxRobotsSize = 512 * 1024

var _ sitevec.RobotsPolicy = (*Policy)(nil)

// Policy answers robots.txt queries, fetching each origin's file once.
// An unreachable robots.txt allows everything.
type Policy struct {
	client *http.Client
	agent  string

	mu    sync.Mutex
	rules map[string]*robotstxt.RobotsData
}

// NewPolicy creates a Policy. A nil client uses http.DefaultClient and an
// empty agent uses DefaultAgent.
func NewPolicy(client *http.Client, agent string) *Policy {
	if client == nil {
		client = http.DefaultClient
	}
	if agent == "" {
		agent = DefaultAgent
	}
	return &Policy{
		client: client,
		agent:  agent,
		rules:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the agent may crawl rawURL.
func (p *Policy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	rules := p.load(ctx, u.Scheme+"://"+u.Host)
	if rules == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return rules.TestAgent(path, p.agent)
}

func (p *Policy) load(ctx context.Context, origin string) *robotstxt.RobotsData {
	p.mu.Lock()
	defer p.mu.Unlock()

	if rules, ok := p.rules[origin]; ok {
		return rules
	}
	rules := p.fetch(ctx, origin)
	// A cancelled lookup is retried on the next call.
	if ctx.Err() == nil {
		p.rules[origin] = rules
	}
	return rules
}

func (p *Policy) fetch(ctx context.Context, origin string) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsSize))
	if err != nil {
		return nil
	}
	rules, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return rules
}
