// Package proxy derives the upstream proxy URL from the platform credential and
// turns it into an HTTP transport for the business logic.
package proxy

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xproxy "golang.org/x/net/proxy"

	"cafe_task/internal/shared/types"
)

// Endpoint is the fixed upstream proxy entry.
type Endpoint struct {
	Scheme string
	Host   string
	Port   int
}

// DefaultEndpoint is the platform's inner SOCKS5 proxy.
var DefaultEndpoint = Endpoint{Scheme: "socks5", Host: "proxy-inner.cafescraper.com", Port: 6000}

func EndpointFrom(conf types.ProxyConf) Endpoint {
	return Endpoint{Scheme: conf.Scheme, Host: conf.Host, Port: conf.Port}
}

func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// BuildURL returns scheme://credential@host:port, or "" when there is no credential.
// The credential is inserted verbatim; it is opaque to this package.
func (e Endpoint) BuildURL(credential string) string {
	if credential == "" {
		return ""
	}
	return fmt.Sprintf("%s://%s@%s", e.Scheme, credential, e.Address())
}

// RedactCredential keeps the first few characters of a credential for log lines.
func RedactCredential(credential string) string {
	if credential == "" {
		return "none"
	}
	const keep = 3
	if len(credential) <= keep {
		return "***"
	}
	return credential[:keep] + "***"
}

// RedactURL masks the userinfo part of a proxy URL built by BuildURL.
func RedactURL(rawURL string) string {
	if rawURL == "" {
		return "none"
	}
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return RedactCredential(rawURL)
	}
	at := strings.LastIndex(rest, "@")
	if at < 0 {
		return rawURL
	}
	return scheme + "://" + RedactCredential(rest[:at]) + rest[at:]
}

// NewTransport returns an http.Transport that dials through the SOCKS5 proxy in
// rawURL. An empty rawURL yields a direct transport.
func NewTransport(rawURL string, timeout time.Duration) (*http.Transport, error) {
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: timeout,
		IdleConnTimeout:     90 * time.Second,
	}
	if rawURL == "" {
		return transport, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		// url.Error echoes the input, which holds the credential.
		return nil, fmt.Errorf("invalid proxy url %s", RedactURL(rawURL))
	}
	d, err := xproxy.FromURL(u, dialer)
	if err != nil {
		return nil, fmt.Errorf("create proxy dialer for %s: %w", RedactURL(rawURL), err)
	}
	if cd, ok := d.(xproxy.ContextDialer); ok {
		transport.DialContext = cd.DialContext
	} else {
		transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
			return d.Dial(network, addr)
		}
	}
	return transport, nil
}
