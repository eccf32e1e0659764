package openai

import (
	"context"

	"github.com/BaSui01/genbridge/apiclient"
	"github.com/BaSui01/genbridge/types"

	"go.uber.org/zap"
)

// Service calls the chat completions and Responses deployments.
type Service struct {
	apis          apiclient.Source
	chatName      string
	responsesName string
	logger        *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithAPINames overrides the registry names.
func WithAPINames(chat, responses string) Option {
	return func(s *Service) {
		if chat != "" {
			s.chatName = chat
		}
		if responses != "" {
			s.responsesName = responses
		}
	}
}

// NewService creates an adapter resolving clients from apis.
func NewService(apis apiclient.Source, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{apis: apis, chatName: APIName, responsesName: ResponsesAPIName, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("component", "openai"))
	return s
}

func (s *Service) post(ctx context.Context, api, path string, body any) (*apiclient.Response, error) {
	c, err := s.apis.Get(api)
	if err != nil {
		return nil, err
	}
	return c.Post(ctx, path, body, nil, nil)
}

// CreateCompletion sends a chat completions request as is.
func (s *Service) CreateCompletion(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	resp, err := s.post(ctx, s.chatName, PathCompletions, req)
	if err != nil {
		return nil, err
	}
	return apiclient.Decode[CompletionResponse](resp)
}

// SendMessage sends messages and returns the first choice's message. opts
// supplies optional fields; Deployment and APIVersion default.
func (s *Service) SendMessage(ctx context.Context, messages []Message, opts *CompletionRequest) (*Message, error) {
	var req CompletionRequest
	if opts != nil {
		req = *opts
	}
	req.Messages = messages
	if req.Deployment == "" {
		req.Deployment = DefaultDeployment
	}
	if req.APIVersion == "" {
		req.APIVersion = DefaultAPIVersion
	}

	resp, err := s.CreateCompletion(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, types.NewError(types.ErrEmptyResponse, "completion returned no choices").WithProvider(s.chatName)
	}
	return &resp.Choices[0].Message, nil
}

// CreateResponse sends a Responses request, defaulting the model.
func (s *Service) CreateResponse(ctx context.Context, req ResponsesRequest) (*ResponsesResponse, error) {
	if req.Model == "" {
		req.Model = ResponsesDefaultModel
	}
	resp, err := s.post(ctx, s.responsesName, PathResponses, req)
	if err != nil {
		return nil, err
	}
	return apiclient.Decode[ResponsesResponse](resp)
}

// SendResponsesMessage sends input (string or []ResponsesMessage) and returns
// the response text, "" when none is found.
func (s *Service) SendResponsesMessage(ctx context.Context, input any, opts *ResponsesRequest) (string, error) {
	var req ResponsesRequest
	if opts != nil {
		req = *opts
	}
	req.Input = input

	resp, err := s.CreateResponse(ctx, req)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		s.logger.Warn("no text found in response", zap.String("response_id", resp.ID))
	} else {
		s.logger.Debug("responses text received", zap.String("response_id", resp.ID), zap.Int("length", len(text)))
	}
	return text, nil
}

// SendResponsesTextMessage sends a plain text input.
func (s *Service) SendResponsesTextMessage(ctx context.Context, text string, opts *ResponsesRequest) (string, error) {
	return s.SendResponsesMessage(ctx, text, opts)
}

// SendResponsesMultiModalMessage sends structured messages.
func (s *Service) SendResponsesMultiModalMessage(ctx context.Context, messages []ResponsesMessage, opts *ResponsesRequest) (string, error) {
	return s.SendResponsesMessage(ctx, messages, opts)
}
