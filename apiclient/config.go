package apiclient

import (
	"strings"
	"time"
)

// Method is an HTTP verb supported by the executor.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

// allowsBody reports whether a request body is attached for m.
func (m Method) allowsBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

// Config binds a client to one API.
type Config struct {
	BaseURL    string            `json:"base_url" yaml:"base_url"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Timeout    time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	MaxRetries int               `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
	// RateLimit is requests per second across all attempts; 0 disables limiting.
	RateLimit float64 `json:"rate_limit,omitempty" yaml:"rate_limit,omitempty"`
	RateBurst int     `json:"rate_burst,omitempty" yaml:"rate_burst,omitempty"`
}

// normalized returns a copy safe to retain: trailing slash stripped, headers copied,
// negative values clamped.
func (c Config) normalized() Config {
	out := c
	out.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Headers != nil {
		out.Headers = make(map[string]string, len(c.Headers))
		for k, v := range c.Headers {
			out.Headers[k] = v
		}
	}
	if out.Timeout < 0 {
		out.Timeout = 0
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	if out.RateBurst <= 0 {
		out.RateBurst = 1
	}
	return out
}
