package crawl

import (
	"net"
	"net/url"
	"strings"

	"github.com/fwojciec/sitevec"
)

// ParseSeed validates a seed URL and returns it in normalized form.
// Only absolute http and https URLs with a host are accepted.
func ParseSeed(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, sitevec.Errorf(sitevec.EINVALID, "seed URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, sitevec.Errorf(sitevec.EINVALID, "invalid seed URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, sitevec.Errorf(sitevec.EINVALID, "seed URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, sitevec.Errorf(sitevec.EINVALID, "seed URL %q has no host", raw)
	}
	u.Host = normalizeHost(u.Scheme, u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// ResolveLink resolves href against the page it was found on and returns
// the normalized absolute URL. It returns false for hrefs that do not
// resolve, carry a fragment marker, or use a scheme other than http(s).
func ResolveLink(page *url.URL, href string) (string, bool) {
	u, ok := resolve(page, href)
	if !ok {
		return "", false
	}
	return u.String(), true
}

// ScopeLinks resolves the hrefs found on page and returns, in document
// order, those that belong on the frontier: same host as the seed (exact
// match, subdomains excluded) and not yet visited.
func ScopeLinks(page *url.URL, host string, hrefs []string, visited func(string) bool) []string {
	var links []string
	for _, href := range hrefs {
		u, ok := resolve(page, href)
		if !ok || u.Host != host {
			continue
		}
		link := u.String()
		if visited != nil && visited(link) {
			continue
		}
		links = append(links, link)
	}
	return links
}

func resolve(page *url.URL, href string) (*url.URL, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.Contains(href, "#") {
		return nil, false
	}
	u, err := page.Parse(href)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if u.Fragment != "" || u.Host == "" {
		return nil, false
	}
	u.Host = normalizeHost(u.Scheme, u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u, true
}

// normalizeHost lowercases the host and drops the scheme's default port.
func normalizeHost(scheme, host string) string {
	host = strings.ToLower(host)
	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}
