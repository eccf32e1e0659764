package providers

import (
	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/providers/firefly"
	"github.com/BaSui01/genbridge/providers/openai"
	"github.com/BaSui01/genbridge/providers/stock"
	"github.com/BaSui01/genbridge/providers/thirdparty"
)

// Endpoint is a named default client configuration.
type Endpoint struct {
	Name   string
	Config apiclient.Config
}

// Registrar accepts endpoint registrations.
type Registrar interface {
	Register(name string, cfg apiclient.Config)
}

func jsonHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}

// Defaults returns the built-in endpoints in registration order.
func Defaults() []Endpoint {
	eps := []Endpoint{
		{Name: openai.APIName, Config: apiclient.Config{
			BaseURL:    openai.BaseURL,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Timeout:    openai.DefaultTimeout,
			MaxRetries: openai.DefaultRetries,
		}},
		{Name: openai.ResponsesAPIName, Config: apiclient.Config{
			BaseURL:    openai.ResponsesBaseURL,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Timeout:    openai.ResponsesDefaultTimeout,
			MaxRetries: openai.ResponsesDefaultRetries,
		}},
	}

	for _, v := range []struct {
		version firefly.Version
		baseURL string
	}{
		{firefly.V2, firefly.V2BaseURL},
		{firefly.V3, firefly.V3BaseURL},
		{firefly.V4, firefly.V4BaseURL},
		{firefly.Batch, firefly.BatchBaseURL},
		{firefly.Video, firefly.VideoBaseURL},
	} {
		eps = append(eps, Endpoint{Name: v.version.APIName(), Config: apiclient.Config{
			BaseURL:    v.baseURL,
			Headers:    firefly.CommonHeaders(),
			Timeout:    firefly.DefaultTimeout,
			MaxRetries: firefly.DefaultRetries,
		}})
	}

	return append(eps,
		Endpoint{Name: stock.APIName, Config: apiclient.Config{
			BaseURL:    stock.BaseURL,
			Headers:    jsonHeaders(),
			Timeout:    stock.DefaultTimeout,
			MaxRetries: stock.DefaultRetries,
		}},
		Endpoint{Name: thirdparty.APIName, Config: apiclient.Config{
			BaseURL:    thirdparty.BaseURL,
			Headers:    jsonHeaders(),
			Timeout:    thirdparty.DefaultTimeout,
			MaxRetries: thirdparty.DefaultRetries,
		}},
	)
}

// RegisterDefaults registers every built-in endpoint on r.
func RegisterDefaults(r Registrar) {
	for _, ep := range Defaults() {
		r.Register(ep.Name, ep.Config)
	}
}
