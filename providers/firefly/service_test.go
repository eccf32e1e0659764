package firefly

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/registry"
	"github.com/BaSui01/genbridge/retry"
	"github.com/BaSui01/genbridge/testutil"
	"github.com/BaSui01/genbridge/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, srv *testutil.APIServer) *Service {
	t.Helper()
	reg := registry.New(testutil.ClientOptions()...)
	for _, v := range []Version{V2, V3, V4, Batch, Video} {
		reg.Register(v.APIName(), apiclient.Config{BaseURL: srv.URL, Headers: CommonHeaders()})
	}
	poller := jobs.NewPoller(jobs.Policy{MaxAttempts: 5}, zap.NewNop(), jobs.WithSleep(retry.NoSleep))
	return NewService(reg, zap.NewNop(), WithPoller(poller), WithClientOptions(testutil.ClientOptions()...))
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func generated() testutil.Reply {
	return testutil.JSON(http.StatusOK, map[string]any{
		"version": "3.0",
		"size":    map[string]any{"width": 2048, "height": 2048},
		"outputs": []any{map[string]any{"seed": 42, "image": map[string]any{"id": "out-1", "presignedUrl": "https://cdn/out-1"}}},
	})
}

func TestGenerate_Versions(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("POST", PathGenerate, generated())
	svc := newTestService(t, srv)
	raw := true

	resp, err := svc.Generate(testutil.TestContext(t), V4, "a fox", "tok", "key", &GenerateOptions{
		Seeds:   []int64{MaxSeed},
		Size:    &DimensionLandscape,
		RawMode: &raw,
	})
	require.NoError(t, err)
	assert.Equal(t, "3.0", resp.Version)
	assert.Equal(t, int64(42), resp.Outputs[0].Seed)

	call, _ := srv.LastCall("POST", PathGenerate)
	assert.Equal(t, "Bearer tok", call.Header.Get("Authorization"))
	assert.Equal(t, "application/json", call.Header.Get("Accept"))
	assert.JSONEq(t, `{"prompt":"a fox","seeds":[2147483647],"size":{"width":2304,"height":1792},"rawMode":true}`, string(call.Body))

	_, err = svc.Generate(testutil.TestContext(t), Video, "a fox", "tok", "key", nil)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidRequest))
}

func TestGenerateBatch(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("POST", PathGenerateBatch, generated())
	svc := newTestService(t, srv)

	_, err := svc.GenerateBatch(testutil.TestContext(t),
		[]BatchImageRequest{{Prompt: "one"}, {Prompt: "two", ContentClass: ContentArt}},
		"tok", "key", &BatchOptions{N: 1, ModelVersion: ModelImage3Fast})
	require.NoError(t, err)

	call, _ := srv.LastCall("POST", PathGenerateBatch)
	assert.JSONEq(t, `{"requests":[{"prompt":"one"},{"prompt":"two","contentClass":"art"}],"modelVersion":"image3_fast","n":1}`, string(call.Body))
}

func TestUploadImage_ScalesLargeImages(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("POST", PathUploadImage,
		testutil.JSON(http.StatusOK, map[string]any{"images": []any{map[string]any{"id": "up-1"}}}))
	svc := newTestService(t, srv)

	resp, err := svc.UploadImage(testutil.TestContext(t), V3, Image{Data: pngBytes(t, 4096, 1024), ContentType: "image/png"}, "tok", "key", true)
	require.NoError(t, err)
	assert.Equal(t, "up-1", resp.ID())

	call, _ := srv.LastCall("POST", PathUploadImage)
	assert.Equal(t, "image/png", call.Header.Get("Content-Type"))
	cfg, format, err := image.DecodeConfig(bytes.NewReader(call.Body))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 2048, cfg.Width)
	assert.Equal(t, 512, cfg.Height)
}

func TestUploadImage_SmallImageSentVerbatim(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("POST", PathUploadImage,
		testutil.JSON(http.StatusOK, map[string]any{"images": []any{map[string]any{"id": "up-1"}}}))
	svc := newTestService(t, srv)
	data := pngBytes(t, 100, 50)

	_, err := svc.UploadImage(testutil.TestContext(t), V2, Image{Data: data, ContentType: "image/png"}, "tok", "key", true)
	require.NoError(t, err)
	call, _ := srv.LastCall("POST", PathUploadImage)
	assert.Equal(t, data, call.Body)

	_, err = svc.UploadImage(testutil.TestContext(t), V2, Image{Data: []byte("junk"), ContentType: "image/png"}, "tok", "key", true)
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidRequest))
}

func TestUploadImages_PreservesOrder(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("POST", PathUploadImage,
		testutil.JSON(http.StatusOK, map[string]any{"images": []any{map[string]any{"id": "same"}}}))
	svc := newTestService(t, srv)
	imgs := []Image{
		{Data: []byte("a"), ContentType: "image/png"},
		{Data: []byte("b"), ContentType: "image/png"},
		{Data: []byte("c"), ContentType: "image/png"},
	}

	out, err := svc.UploadImages(testutil.TestContext(t), Batch, imgs, "tok", "key", false, 2)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for _, r := range out {
		assert.Equal(t, "same", r.ID())
	}
	assert.Equal(t, 3, srv.CallCount("POST", PathUploadImage))
}

func TestGenerateSimilarAndFill(t *testing.T) {
	srv := testutil.NewAPIServer(t).
		On("POST", PathGenerateSimilar, generated()).
		On("POST", PathFill, generated())
	svc := newTestService(t, srv)
	ctx := testutil.TestContext(t)

	_, err := svc.GenerateSimilar(ctx, "img-9", "tok", "key", &SimilarOptions{Seeds: []int64{1}})
	require.NoError(t, err)
	call, _ := srv.LastCall("POST", PathGenerateSimilar)
	assert.JSONEq(t, `{"image":{"id":"img-9"},"seeds":[1]}`, string(call.Body))

	_, err = svc.Fill(ctx, "", "tok", "key", nil)
	require.NoError(t, err)
	call, _ = srv.LastCall("POST", PathFill)
	assert.JSONEq(t, `{"similarity":0}`, string(call.Body))

	_, err = svc.Fill(ctx, "a hat", "tok", "key", &FillOptions{InputImage: &FillInput{Source: PublicBinary{ID: "src"}}})
	require.NoError(t, err)
	call, _ = srv.LastCall("POST", PathFill)
	assert.JSONEq(t, `{"prompt":"a hat","inputImage":{"source":{"id":"src"}}}`, string(call.Body))
}

func TestGenerateVideoAndWait(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.On("POST", PathGenerateVideo, testutil.JSON(http.StatusOK, map[string]any{
		"links": map[string]any{
			"cancel": map[string]any{"href": srv.URL + "/v2/status/job-7/cancel"},
			"result": map[string]any{"href": srv.URL + "/v2/status/job-7"},
		},
	})).On("GET", "/v2/status/job-7",
		testutil.JSON(http.StatusOK, map[string]any{"progress": 20}),
		testutil.JSON(http.StatusOK, map[string]any{
			"version": "1.0",
			"outputs": []any{map[string]any{"seed": 1, "video": map[string]any{"id": "v", "presignedUrl": "https://cdn/v.mp4"}}},
		}),
	)
	svc := newTestService(t, srv)

	res, err := svc.GenerateVideoAndWait(testutil.TestContext(t), "clouds", "tok", "key", &VideoOptions{
		Sizes: []VideoSize{{Width: 1280, Height: 720, NumFrames: 121}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/v.mp4"}, res.URLs())
	assert.Equal(t, 2, srv.CallCount("GET", "/v2/status/job-7"))

	call, _ := srv.LastCall("POST", PathGenerateVideo)
	assert.JSONEq(t, `{"prompt":"clouds","sizes":[{"width":1280,"height":720,"numFrames":121}]}`, string(call.Body))
}

func TestCheckVideoStatus_SingleAttempt(t *testing.T) {
	srv := testutil.NewAPIServer(t).On("GET", "/v2/status/x", testutil.JSON(http.StatusBadGateway, map[string]any{}))
	svc := newTestService(t, srv)

	_, err := svc.CheckVideoStatus(testutil.TestContext(t), srv.URL+"/v2/status/x", "tok", "key")
	re, ok := apiclient.AsRequestError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, re.StatusCode)
	assert.Equal(t, 1, srv.CallCount("GET", "/v2/status/x"))

	_, err = svc.CheckVideoStatus(testutil.TestContext(t), "not a url", "tok", "key")
	assert.True(t, types.IsErrorCode(err, types.ErrInvalidHref))
}

func TestScaleToFit(t *testing.T) {
	w, h := ScaleToFit(4096, 1024, 2048)
	assert.Equal(t, []int{2048, 512}, []int{w, h})
	w, h = ScaleToFit(1000, 3000, 2048)
	assert.Equal(t, []int{682, 2048}, []int{w, h})
	assert.InDelta(t, 1.2857, AspectLandscape, 0.001)
	assert.Equal(t, 1.0, AspectSquare)
	assert.Equal(t, "firefly-batch", Batch.APIName())
}
