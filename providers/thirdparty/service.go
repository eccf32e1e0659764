package thirdparty

import (
	"context"
	"net/url"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/jobs"
	"github.com/BaSui01/genbridge/types"

	"go.uber.org/zap"
)

// APIName is the default registry name of the gateway.
const APIName = "thirdparty"

// Service calls the third-party image and video model gateway.
type Service struct {
	apis    apiclient.Source
	apiName string
	poller  *jobs.Poller
	ledger  jobs.Ledger
	logger  *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithAPIName overrides the registry name.
func WithAPIName(name string) Option {
	return func(s *Service) { s.apiName = name }
}

// WithPoller replaces the job poller.
func WithPoller(p *jobs.Poller) Option {
	return func(s *Service) {
		if p != nil {
			s.poller = p
		}
	}
}

// WithLedger records submissions and outcomes.
func WithLedger(l jobs.Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// NewService creates a gateway adapter resolving its client from apis.
func NewService(apis apiclient.Source, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{apis: apis, apiName: APIName, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.poller == nil {
		s.poller = jobs.NewPoller(jobs.DefaultPolicy(), logger, jobs.WithName(s.apiName))
	}
	s.logger = s.logger.With(zap.String("component", "thirdparty"))
	return s
}

func (s *Service) client() (*apiclient.Client, error) {
	return s.apis.Get(s.apiName)
}

// GenerateImage submits an image job. nil opts selects flux.
func (s *Service) GenerateImage(ctx context.Context, prompt, token, apiKey string, opts *Options) (*GenerateResponse, error) {
	o := withDefaultModel(opts, ModelFlux)
	o.GenerateAudio = nil
	return s.submit(ctx, PathGenerateImage, prompt, token, apiKey, o)
}

// GenerateVideo submits a video job. nil opts selects veo.
func (s *Service) GenerateVideo(ctx context.Context, prompt, token, apiKey string, opts *Options) (*GenerateResponse, error) {
	return s.submit(ctx, PathGenerateVideo, prompt, token, apiKey, withDefaultModel(opts, ModelVeo))
}

func withDefaultModel(opts *Options, model string) Options {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.ModelID == "" {
		o.ModelID = model
	}
	return o
}

func (s *Service) submit(ctx context.Context, path, prompt, token, apiKey string, o Options) (*GenerateResponse, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	resp, err := c.Post(ctx, path, GenerateRequest{Prompt: prompt, Options: o}, apiclient.BearerHeaders(token, apiKey), nil)
	if err != nil {
		return nil, err
	}
	out, err := apiclient.Decode[GenerateResponse](resp)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("job submitted",
		zap.String("path", path),
		zap.String("model", o.ModelID),
		zap.String("href", out.Links.Result.Href))
	return out, nil
}

// GetJobResult fetches and classifies the current state of jobID.
func (s *Service) GetJobResult(ctx context.Context, jobID, token, apiKey string) (*JobResult, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	resp, err := c.Get(ctx, PathJobResult+"/"+url.PathEscape(jobID), nil, apiclient.BearerHeaders(token, apiKey))
	if err != nil {
		return nil, err
	}
	if resp.Kind != apiclient.PayloadJSON {
		// 非 JSON 的 2xx 响应没有可识别的状态，按未知处理（轮询视为失败）
		s.logger.Debug("job result is not JSON",
			zap.String("job_id", jobID),
			zap.Stringer("payload", resp.Kind))
		return &JobResult{Kind: JobUnknown}, nil
	}
	return ClassifyJobResult(resp.Raw)
}

// PollJobUntilComplete polls jobID until an image or video result appears.
func (s *Service) PollJobUntilComplete(ctx context.Context, jobID, token, apiKey string) (*JobResult, error) {
	return jobs.Poll(ctx, s.poller, jobID, func(ctx context.Context, id string) (jobs.Status[*JobResult], error) {
		res, err := s.GetJobResult(ctx, id, token, apiKey)
		if err != nil {
			return jobs.Status[*JobResult]{}, err
		}
		switch res.Kind {
		case JobImage, JobVideo:
			return jobs.Status[*JobResult]{Phase: jobs.PhaseDone, Result: res}, nil
		case JobInProgress:
			return jobs.Status[*JobResult]{Phase: jobs.PhaseInProgress, Progress: res.Progress}, nil
		default:
			return jobs.Status[*JobResult]{Phase: jobs.PhaseFailed}, nil
		}
	})
}

// GenerateImageAndWait submits an image job and waits for its result.
func (s *Service) GenerateImageAndWait(ctx context.Context, prompt, token, apiKey string, opts *Options) (*ImageJobResult, error) {
	resp, err := s.GenerateImage(ctx, prompt, token, apiKey, opts)
	if err != nil {
		return nil, err
	}
	res, err := s.wait(ctx, resp, "image", prompt, withDefaultModel(opts, ModelFlux).ModelID, token, apiKey)
	if err != nil {
		return nil, err
	}
	if res.Kind != JobImage {
		return nil, types.NewError(types.ErrTypeMismatch, "Expected image result but got video result").WithProvider(s.apiName)
	}
	return res.Image, nil
}

// GenerateVideoAndWait submits a video job and waits for its result.
func (s *Service) GenerateVideoAndWait(ctx context.Context, prompt, token, apiKey string, opts *Options) (*VideoJobResult, error) {
	resp, err := s.GenerateVideo(ctx, prompt, token, apiKey, opts)
	if err != nil {
		return nil, err
	}
	res, err := s.wait(ctx, resp, "video", prompt, withDefaultModel(opts, ModelVeo).ModelID, token, apiKey)
	if err != nil {
		return nil, err
	}
	if res.Kind != JobVideo {
		return nil, types.NewError(types.ErrTypeMismatch, "Expected video result but got image result").WithProvider(s.apiName)
	}
	return res.Video, nil
}

func (s *Service) wait(ctx context.Context, resp *GenerateResponse, kind, prompt, model, token, apiKey string) (*JobResult, error) {
	href := resp.Links.Result.Href
	jobID, err := ExtractJobID(href)
	if err != nil {
		return nil, err
	}
	s.recordSubmitted(ctx, jobs.Record{
		ID: jobID, Provider: s.apiName, Kind: kind, Prompt: prompt, ModelID: model, ResultHref: href,
	})

	res, err := s.PollJobUntilComplete(ctx, jobID, token, apiKey)
	var urls []string
	if err == nil {
		switch res.Kind {
		case JobImage:
			urls = res.Image.URLs()
		case JobVideo:
			urls = res.Video.URLs()
		}
	}
	s.recordFinished(ctx, jobID, urls, err)
	return res, err
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
