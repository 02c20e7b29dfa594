package ownhttp

import (
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// New returns a new http.Client with the AddHeaderTransport (setting the User-Agent header)
func New() *http.Client {
	return &http.Client{Transport: NewAddHeaderTransport(nil)}
}

// NewDownloadClient returns a client tuned for many concurrent file downloads.
// If limit is > 0, requests are throttled to limit requests per second.
func NewDownloadClient(limit float64) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConnsPerHost:   16,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if limit > 0 {
		transport = NewThrottleTransport(transport, rate.NewLimiter(rate.Limit(limit), int(limit)+1))
	}

	return &http.Client{Transport: NewAddHeaderTransport(transport)}
}
