package helpers

import (
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures the search index client.
type ESOptions struct {
	Addresses []string
	Username  string
	Password  string
	// Timeout bounds dialing and waiting for response headers. Defaults to 5s.
	Timeout time.Duration
	// MaxRetries on 502/503/504. Zero disables retries.
	MaxRetries int
}

// NewESClient creates an Elasticsearch client. Basic auth is used when a username is set.
func NewESClient(o ESOptions) (*elasticsearch.Client, error) {
	if len(o.Addresses) == 0 {
		return nil, errors.New("elasticsearch: no addresses")
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     o.Addresses,
		Username:      o.Username,
		Password:      o.Password,
		MaxRetries:    o.MaxRetries,
		DisableRetry:  o.MaxRetries <= 0,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: timeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		},
	})
}
