// Package http holds the shared outbound HTTP transport.
package http

import (
	"net"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// NewHTTPClient returns the client used for upstream market data calls.
// timeout bounds the whole exchange, body included; zero or less selects 10s.
// Every request should still carry the caller's context so that a client
// disconnect aborts the upstream call.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
