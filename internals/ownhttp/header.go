package ownhttp

import "net/http"

// UserAgent is sent with every request made through this package
var UserAgent = "mcinstall (https://github.com/minepkg/mcinstall)"

// AddHeaderTransport sets the User-Agent header on every request
type AddHeaderTransport struct {
	T http.RoundTripper
}

func (adt *AddHeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers should not modify the request
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}
	return adt.T.RoundTrip(req)
}

// NewAddHeaderTransport wraps T (or http.DefaultTransport if T is nil)
func NewAddHeaderTransport(T http.RoundTripper) *AddHeaderTransport {
	if T == nil {
		T = http.DefaultTransport
	}
	return &AddHeaderTransport{T}
}
