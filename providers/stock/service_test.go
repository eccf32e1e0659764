package stock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/registry"
	"github.com/BaSui01/genbridge/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEncodeQuery(t *testing.T) {
	img := 1
	q := EncodeQuery(SearchParameters{
		Words:         "red car",
		Limit:         10,
		SimilarImage:  &img,
		ThumbnailSize: 500,
		Filters: Filters{
			Filter3DTypeID:       []int{1, 3},
			"premium":            "false",
			"content_type:photo": 1,
		},
		ResultColumns: []string{"id", "title"},
	})

	assert.Equal(t,
		"search_parameters[words]=red+car"+
			"&search_parameters[limit]=10"+
			"&search_parameters[similar_image]=1"+
			"&search_parameters[thumbnail_size]=500"+
			"&search_parameters[filters][3d_type_id][]=1"+
			"&search_parameters[filters][3d_type_id][]=3"+
			"&search_parameters[filters][content_type:photo]=1"+
			"&search_parameters[filters][premium]=false"+
			"&result_columns[]=id&result_columns[]=title",
		q)
}

func TestEncodeQuery_Empty(t *testing.T) {
	assert.Equal(t, "", EncodeQuery(SearchParameters{}))
	assert.Equal(t, "search_parameters[filters][template_type_id][]=2",
		EncodeQuery(SearchParameters{Filters: Filters{FilterTemplateTypeID: []int{2}, "colors": nil}}))
}

func TestEncodeQuery_AnySliceFilter(t *testing.T) {
	q := EncodeQuery(SearchParameters{Filters: Filters{
		"a_ids":    []int64{7, 8},
		"b_colors": []string{"red", "blue"},
		"c_mixed":  []any{1, "x"},
		"d_empty":  []string{},
	}})

	assert.Equal(t,
		"search_parameters[filters][a_ids][]=7"+
			"&search_parameters[filters][a_ids][]=8"+
			"&search_parameters[filters][b_colors][]=red"+
			"&search_parameters[filters][b_colors][]=blue"+
			"&search_parameters[filters][c_mixed][]=1"+
			"&search_parameters[filters][c_mixed][]=x",
		q)
}

func newTestService(t *testing.T, srv *testutil.APIServer, opts ...Option) *Service {
	t.Helper()
	reg := registry.New(testutil.ClientOptions()...)
	reg.Register(APIName, apiclient.Config{BaseURL: srv.URL + "/Rest"})
	return NewService(reg, zap.NewNop(), opts...)
}

func searchReply() testutil.Reply {
	return testutil.JSON(http.StatusOK, map[string]any{
		"nb_results": 1,
		"files": []any{map[string]any{
			"id": 101, "title": "Red car", "thumbnail_url": "https://t/101.jpg",
			"category": map[string]any{"id": 4, "name": "Transport"},
		}},
	})
}

func TestSearch_HeadersAndDecode(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("GET", "/Rest"+PathSearch, searchReply())
	svc := newTestService(t, srv)

	resp, err := svc.Search(testutil.TestContext(t), "key", SearchParameters{Words: "car"}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NbResults)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, int64(101), resp.Files[0].ID)
	assert.Equal(t, "Transport", resp.Files[0].Category.Name)

	call, _ := srv.LastCall("GET", "/Rest"+PathSearch)
	assert.Equal(t, "search_parameters[words]=car", call.RawQuery)
	assert.Equal(t, DefaultProductName, call.Header.Get("x-Product"))
	assert.Equal(t, "key", call.Header.Get("x-api-key"))
}

func TestQuickSearch_Defaults(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("GET", "/Rest"+PathSearch, searchReply())
	svc := newTestService(t, srv)

	_, err := svc.QuickSearch(testutil.TestContext(t), "key", "sunset", 0, nil)
	require.NoError(t, err)

	call, _ := srv.LastCall("GET", "/Rest"+PathSearch)
	want := EncodeQuery(SearchParameters{Words: "sunset", Limit: 20, ResultColumns: DefaultResultColumns})
	assert.Equal(t, want, call.RawQuery)
	assert.Contains(t, call.RawQuery, "result_columns[]=premium_level_id")
}

func TestSearch_CacheHitSkipsNetwork(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("GET", "/Rest"+PathSearch, searchReply())
	cache := &memCache{}
	svc := newTestService(t, srv, WithCache(cache, time.Minute))
	ctx := testutil.TestContext(t)

	first, err := svc.Search(ctx, "key", SearchParameters{Words: "car"}, "")
	require.NoError(t, err)
	second, err := svc.Search(ctx, "key", SearchParameters{Words: "car"}, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, srv.CallCount("GET", "/Rest"+PathSearch))
	assert.Equal(t, time.Minute, cache.lastTTL)

	_, err = svc.Search(ctx, "key", SearchParameters{Words: "car"}, "Other Product")
	require.NoError(t, err)
	assert.Equal(t, 2, srv.CallCount("GET", "/Rest"+PathSearch))
}

func TestSearch_Error(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("GET", "/Rest"+PathSearch, testutil.JSON(http.StatusForbidden, map[string]any{"code": "403"}))
	svc := newTestService(t, srv)

	_, err := svc.Search(context.Background(), "bad", SearchParameters{Words: "x"}, "")
	re, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, re.StatusCode)
}

type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	lastTTL time.Duration
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return errors.New("miss")
	}
	return json.Unmarshal(b, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = b
	c.lastTTL = ttl
	return nil
}
