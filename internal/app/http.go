package app

import (
	"net"
	"net/http"
	"time"
)

// newLLMHTTPClient returns the client used for the model endpoint. A grounded
// research call routinely takes one to two minutes, so there is no overall
// timeout; only connection setup is bounded.
func newLLMHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}

// newSearchHTTPClient is used for the optional local grounding lookups.
func newSearchHTTPClient() *http.Client {
	c := newLLMHTTPClient()
	c.Timeout = 20 * time.Second
	return c
}
