package apiclient

import "github.com/BaSui01/genbridge/types"

// Source resolves a named client. Adapters resolve on every call so a
// re-registered API takes effect immediately.
type Source interface {
	Get(name string) (*Client, error)
}

// StaticSource is a fixed name→client map.
type StaticSource map[string]*Client

// Get implements Source.
func (s StaticSource) Get(name string) (*Client, error) {
	if c, ok := s[name]; ok {
		return c, nil
	}
	return nil, types.Errorf(types.ErrNotRegistered, "API with name %q is not registered", name)
}
