package stock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/BaSui01/genbridge/apiclient"

	"go.uber.org/zap"
)

// Cache stores search responses. GetJSON returns an error on a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Service searches the Stock catalog.
type Service struct {
	apis     apiclient.Source
	apiName  string
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithAPIName overrides the registry name.
func WithAPIName(name string) Option {
	return func(s *Service) { s.apiName = name }
}

// WithCache caches search responses for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// NewService creates a Stock adapter resolving its client from apis.
func NewService(apis apiclient.Source, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{apis: apis, apiName: APIName, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "stock"))
	return s
}

// Search queries Stock. An empty productName uses DefaultProductName.
func (s *Service) Search(ctx context.Context, apiKey string, params SearchParameters, productName string) (*SearchResponse, error) {
	if productName == "" {
		productName = DefaultProductName
	}
	query := EncodeQuery(params)
	key := cacheKey(productName, query)

	if s.cache != nil {
		var cached SearchResponse
		if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
			s.logger.Debug("stock search served from cache", zap.String("words", params.Words))
			return &cached, nil
		}
	}

	c, err := s.apis.Get(s.apiName)
	if err != nil {
		return nil, err
	}
	resp, err := c.Get(ctx, PathSearch+"?"+query, nil, map[string]string{
		"x-Product": productName,
		"x-api-key": apiKey,
	})
	if err != nil {
		s.logger.Error("failed to query stock", zap.String("words", params.Words), zap.Error(err))
		return nil, err
	}
	out, err := apiclient.Decode[SearchResponse](resp)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, out, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache stock search", zap.Error(err))
		}
	}
	return out, nil
}

// QuickSearch searches by words. limit <= 0 uses DefaultQuickLimit; columns
// default to DefaultResultColumns unless opts sets them.
func (s *Service) QuickSearch(ctx context.Context, apiKey, words string, limit int, opts *SearchParameters) (*SearchResponse, error) {
	var p SearchParameters
	if opts != nil {
		p = *opts
	}
	p.Words = words
	if limit <= 0 {
		limit = DefaultQuickLimit
	}
	p.Limit = limit
	if len(p.ResultColumns) == 0 {
		p.ResultColumns = DefaultResultColumns
	}
	return s.Search(ctx, apiKey, p, "")
}

func cacheKey(product, query string) string {
	sum := sha256.Sum256([]byte(product + "\x00" + query))
	return "stock:search:" + hex.EncodeToString(sum[:])
}
