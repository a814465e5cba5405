package langbly

import (
	"net/http"
	"net/url"
	"time"
)

// Doer executes a single HTTP exchange. *http.Client satisfies it; tests
// inject counting stubs. Implementations must not interpret status codes and
// must be safe for concurrent use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// newTransport builds the pooled transport owned by a Client constructed
// without WithHTTPClient. Timeouts per attempt are enforced through request
// contexts, not here.
func newTransport(proxyURL string) (*http.Transport, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        32,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(u)
	}
	return transport, nil
}
