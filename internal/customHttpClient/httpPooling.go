package customHttpClient

import (
	"net/http"

	"github.com/avuppal/driveRAG/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient returns a client sharing the process-wide transport, so
// repeated downloads reuse connections.
func NewPooledClient() *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   config.DriveRequestTimeout,
	}
}
