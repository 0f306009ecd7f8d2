package fetch

import (
	"crypto/tls"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Connection pool tuning shared by both transport families.
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
	defaultTLSHandshakeTimeout = 10 * time.Second
	defaultExpectContinue      = 1 * time.Second
	defaultReadIdleTimeout     = 30 * time.Second
)

// newPrimaryTransport builds the HTTP/2 transport. Plain-text URLs and
// servers without h2 support surface as transport errors, which the client
// recovers from by substituting the secondary transport.
func newPrimaryTransport() *http2.Transport {
	return &http2.Transport{
		ReadIdleTimeout: defaultReadIdleTimeout,
		PingTimeout:     defaultTLSHandshakeTimeout,
	}
}

// newSecondaryTransport builds the HTTP/1.1 fallback transport with h2
// upgrade disabled so the two pools stay on distinct protocol families.
func newSecondaryTransport() *http.Transport {
	return &http.Transport{
		ForceAttemptHTTP2:     false,
		TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ExpectContinueTimeout: defaultExpectContinue,
	}
}
