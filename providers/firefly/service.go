package firefly

import (
	"context"
	"net/url"
	"path"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/types"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultUploadConcurrency bounds UploadImages.
const DefaultUploadConcurrency = 4

// Service calls the Firefly image and video APIs.
type Service struct {
	apis       apiclient.Source
	clientOpts []apiclient.Option
	poller     *jobs.Poller
	ledger     jobs.Ledger
	logger     *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClientOptions are applied to the one-off status clients.
func WithClientOptions(opts ...apiclient.Option) Option {
	return func(s *Service) { s.clientOpts = append(s.clientOpts, opts...) }
}

// WithPoller replaces the video job poller.
func WithPoller(p *jobs.Poller) Option {
	return func(s *Service) {
		if p != nil {
			s.poller = p
		}
	}
}

// WithLedger records video submissions and outcomes.
func WithLedger(l jobs.Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// NewService creates a Firefly adapter resolving clients from apis.
func NewService(apis apiclient.Source, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{apis: apis, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.poller == nil {
		s.poller = jobs.NewPoller(jobs.DefaultPolicy(), logger, jobs.WithName(Video.APIName()))
	}
	s.logger = s.logger.With(zap.String("component", "firefly"))
	return s
}

func (s *Service) client(v Version) (*apiclient.Client, error) {
	return s.apis.Get(v.APIName())
}

func (s *Service) post(ctx context.Context, v Version, p string, body any, headers map[string]string, out any) error {
	c, err := s.client(v)
	if err != nil {
		return err
	}
	resp, err := c.Post(ctx, p, body, headers, nil)
	if err != nil {
		s.logger.Error("firefly request failed", zap.String("api", v.APIName()), zap.String("path", p), zap.Error(err))
		return err
	}
	return resp.Decode(out)
}

// Generate creates images on the v2, v3 or v4 deployment.
func (s *Service) Generate(ctx context.Context, v Version, prompt, token, apiKey string, opts *GenerateOptions) (*GenerateResponse, error) {
	switch v {
	case V2, V3, V4:
	default:
		return nil, types.Errorf(types.ErrInvalidRequest, "generate is not available on firefly %s", v)
	}
	req := generateRequest{Prompt: prompt}
	if opts != nil {
		req.GenerateOptions = *opts
	}
	var out GenerateResponse
	if err := s.post(ctx, v, PathGenerate, req, apiclient.BearerHeaders(token, apiKey), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateBatch submits several prompts to the batch deployment.
func (s *Service) GenerateBatch(ctx context.Context, requests []BatchImageRequest, token, apiKey string, opts *BatchOptions) (*GenerateResponse, error) {
	req := batchRequest{Requests: requests}
	if opts != nil {
		req.BatchOptions = *opts
	}
	var out GenerateResponse
	if err := s.post(ctx, Batch, PathGenerateBatch, req, apiclient.BearerHeaders(token, apiKey), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImage stores img on deployment v. With scale set, images larger than
// MaxUploadDimension are downsized first.
func (s *Service) UploadImage(ctx context.Context, v Version, img Image, token, apiKey string, scale bool) (*ImageResponse, error) {
	if scale {
		fitted, err := fitImage(img, MaxUploadDimension)
		if err != nil {
			return nil, err
		}
		img = fitted
	}
	headers := apiclient.BearerHeaders(token, apiKey)
	if img.ContentType != "" {
		headers["Content-Type"] = img.ContentType
	}
	var out ImageResponse
	if err := s.post(ctx, v, PathUploadImage, img.Data, headers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadImages uploads images concurrently, preserving order. concurrency <= 0
// uses DefaultUploadConcurrency. The first failure cancels the rest.
func (s *Service) UploadImages(ctx context.Context, v Version, images []Image, token, apiKey string, scale bool, concurrency int) ([]*ImageResponse, error) {
	if concurrency <= 0 {
		concurrency = DefaultUploadConcurrency
	}
	out := make([]*ImageResponse, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, img := range images {
		g.Go(func() error {
			resp, err := s.UploadImage(gctx, v, img, token, apiKey, scale)
			if err != nil {
				return err
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateSimilar creates variations of an uploaded image.
func (s *Service) GenerateSimilar(ctx context.Context, imageID, token, apiKey string, opts *SimilarOptions) (*SimilarResponse, error) {
	var req similarRequest
	req.Image.ID = imageID
	if opts != nil {
		req.SimilarOptions = *opts
	}
	var out SimilarResponse
	if err := s.post(ctx, V2, PathGenerateSimilar, req, apiclient.BearerHeaders(token, apiKey), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Fill runs generative fill on v3. An empty prompt requests similarity 0.
func (s *Service) Fill(ctx context.Context, prompt, token, apiKey string, opts *FillOptions) (*FillResponse, error) {
	var req FillOptions
	if opts != nil {
		req = *opts
	}
	if prompt == "" {
		zero := 0
		req.Similarity = &zero
	} else {
		req.Prompt = prompt
	}
	var out FillResponse
	if err := s.post(ctx, V3, PathFill, req, apiclient.BearerHeaders(token, apiKey), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateVideo starts a video job.
func (s *Service) GenerateVideo(ctx context.Context, prompt, token, apiKey string, opts *VideoOptions) (*VideoGenerateResponse, error) {
	req := videoRequest{Prompt: prompt}
	if opts != nil {
		req.VideoOptions = *opts
	}
	s.logger.Debug("generating video", zap.String("prompt", prompt))
	var out VideoGenerateResponse
	if err := s.post(ctx, Video, PathGenerateVideo, req, apiclient.BearerHeaders(token, apiKey), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckVideoStatus fetches an absolute status href with a single attempt.
func (s *Service) CheckVideoStatus(ctx context.Context, href, token, apiKey string) (*VideoStatus, error) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, types.Errorf(types.ErrInvalidHref, "Invalid video status href: %s", href).WithCause(err)
	}
	opts := append([]apiclient.Option{apiclient.WithName(Video.APIName() + "-status")}, s.clientOpts...)
	c := apiclient.New(apiclient.Config{
		BaseURL: u.Scheme + "://" + u.Host,
		Timeout: DefaultTimeout,
	}, opts...)

	resp, err := c.Get(ctx, u.RequestURI(), nil, apiclient.BearerHeaders(token, apiKey))
	if err != nil {
		return nil, err
	}
	return ClassifyVideoStatus(resp)
}

// ClassifyVideoStatus interprets a status response. Outputs win over progress.
func ClassifyVideoStatus(resp *apiclient.Response) (*VideoStatus, error) {
	var probe struct {
		Progress any         `json:"progress"`
		Outputs  []any       `json:"outputs"`
		Links    *VideoLinks `json:"links"`
	}
	if err := resp.Decode(&probe); err != nil {
		return nil, err
	}
	if probe.Outputs != nil {
		res, err := apiclient.Decode[VideoResult](resp)
		if err != nil {
			return nil, err
		}
		return &VideoStatus{State: VideoDone, Result: res}, nil
	}
	if p, ok := probe.Progress.(float64); ok {
		return &VideoStatus{State: VideoInProgress, Progress: p, Links: probe.Links}, nil
	}
	return &VideoStatus{State: VideoUnknown, Links: probe.Links}, nil
}

// GenerateVideoAndWait starts a video job and polls its result href.
func (s *Service) GenerateVideoAndWait(ctx context.Context, prompt, token, apiKey string, opts *VideoOptions) (*VideoResult, error) {
	started, err := s.GenerateVideo(ctx, prompt, token, apiKey, opts)
	if err != nil {
		return nil, err
	}
	href := started.Links.Result.Href
	u, err := url.Parse(href)
	if err != nil || u.Path == "" {
		return nil, types.Errorf(types.ErrInvalidHref, "Invalid video result href: %s", href)
	}
	jobID := path.Base(u.Path)
	s.recordSubmitted(ctx, jobs.Record{ID: jobID, Provider: Video.APIName(), Kind: "video", Prompt: prompt, ResultHref: href})

	res, err := jobs.Poll(ctx, s.poller, jobID, func(ctx context.Context, _ string) (jobs.Status[*VideoResult], error) {
		st, err := s.CheckVideoStatus(ctx, href, token, apiKey)
		if err != nil {
			return jobs.Status[*VideoResult]{}, err
		}
		switch st.State {
		case VideoDone:
			return jobs.Status[*VideoResult]{Phase: jobs.PhaseDone, Result: st.Result}, nil
		case VideoInProgress:
			return jobs.Status[*VideoResult]{Phase: jobs.PhaseInProgress, Progress: st.Progress}, nil
		default:
			return jobs.Status[*VideoResult]{Phase: jobs.PhaseFailed}, nil
		}
	})
	var urls []string
	if err == nil {
		urls = res.URLs()
	}
	s.recordFinished(ctx, jobID, urls, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) recordSubmitted(ctx context.Context, rec jobs.Record) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Submitted(ctx, rec); err != nil {
		s.logger.Warn("failed to record job submission", zap.String("job_id", rec.ID), zap.Error(err))
	}
}

func (s *Service) recordFinished(ctx context.Context, id string, urls []string, jobErr error) {
	if s.ledger == nil {
		return
	}
	if err := s.ledger.Finished(ctx, id, urls, jobErr); err != nil {
		s.logger.Warn("failed to record job outcome", zap.String("job_id", id), zap.Error(err))
	}
}
