package config

import (
	"slices"
	"time"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/providers"
)

// EndpointConfig overrides one registered API. Nil fields and an empty
// BaseURL keep the default; an explicit zero (max_retries: 0, timeout: 0s)
// replaces it.
type EndpointConfig struct {
	BaseURL    string         `yaml:"base_url" env:"BASE_URL"`
	Timeout    *time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxRetries *int           `yaml:"max_retries" env:"MAX_RETRIES"`
	RateLimit  *float64       `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst  *int           `yaml:"rate_burst" env:"RATE_BURST"`
	// 额外的默认请求头（与内置请求头合并）
	Headers map[string]string `yaml:"headers" env:"-"`
}

// Apply layers e over base.
func (e EndpointConfig) Apply(base apiclient.Config) apiclient.Config {
	out := base
	if e.BaseURL != "" {
		out.BaseURL = e.BaseURL
	}
	if e.Timeout != nil {
		out.Timeout = *e.Timeout
	}
	if e.MaxRetries != nil {
		out.MaxRetries = *e.MaxRetries
	}
	if e.RateLimit != nil {
		out.RateLimit = *e.RateLimit
	}
	if e.RateBurst != nil {
		out.RateBurst = *e.RateBurst
	}
	if len(e.Headers) > 0 {
		h := make(map[string]string, len(base.Headers)+len(e.Headers))
		for k, v := range base.Headers {
			h[k] = v
		}
		for k, v := range e.Headers {
			h[k] = v
		}
		out.Headers = h
	}
	return out
}

func (e EndpointConfig) negative() bool {
	return (e.Timeout != nil && *e.Timeout < 0) ||
		(e.MaxRetries != nil && *e.MaxRetries < 0) ||
		(e.RateLimit != nil && *e.RateLimit < 0) ||
		(e.RateBurst != nil && *e.RateBurst < 0)
}

// Endpoints merges the built-in endpoints with the apis section.
// Names only present in the config are appended in sorted order and
// need a base_url to be usable.
func (c *Config) Endpoints() []providers.Endpoint {
	eps := providers.Defaults()
	known := make(map[string]bool, len(eps))
	for i := range eps {
		known[eps[i].Name] = true
		if o, ok := c.APIs[eps[i].Name]; ok {
			eps[i].Config = o.Apply(eps[i].Config)
		}
	}

	var extra []string
	for name := range c.APIs {
		if !known[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		eps = append(eps, providers.Endpoint{Name: name, Config: c.APIs[name].Apply(apiclient.Config{})})
	}
	return eps
}

// RegisterAPIs registers every merged endpoint on r.
func (c *Config) RegisterAPIs(r providers.Registrar) {
	for _, ep := range c.Endpoints() {
		r.Register(ep.Name, ep.Config)
	}
}
