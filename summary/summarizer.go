package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/genbridge/providers/openai"
	"github.com/BaSui01/genbridge/types"
)

const (
	DefaultModel          = openai.ResponsesDefaultModel
	DefaultMaxInputTokens = 6000

	DefaultSystemPrompt = "You summarize help-center articles. Reply with one or two plain sentences " +
		"that tell the reader what the article helps them do. Do not use markdown."
)

type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

type Question struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Answer          string   `json:"answer"`
	Steps           []string `json:"steps,omitempty"`
	RelatedSections []string `json:"relatedSections,omitempty"`
}

// Article is the input to Summarize.
type Article struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Links     []Link     `json:"links,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

type Summary struct {
	ArticleID string     `json:"articleId"`
	Text      string     `json:"text"`
	Links     []Link     `json:"links,omitempty"`
	Questions []Question `json:"questions,omitempty"`
	Model     string     `json:"model"`
	Truncated bool       `json:"truncated"`
}

// Rating is a thumbs up/down vote.
type Rating string

const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

func (r Rating) Valid() bool { return r == RatingUp || r == RatingDown }

type Feedback struct {
	ArticleID  string    `json:"articleId"`
	QuestionID string    `json:"questionId,omitempty"`
	SessionID  string    `json:"sessionId,omitempty"`
	Rating     Rating    `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FeedbackStore persists feedback.
type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb Feedback) error
}

// Responder is the subset of openai.Service the summarizer needs.
type Responder interface {
	SendResponsesMessage(ctx context.Context, input any, opts *openai.ResponsesRequest) (string, error)
}

type Summarizer struct {
	responder      Responder
	counter        TokenCounter
	store          FeedbackStore
	model          string
	maxInputTokens int
	systemPrompt   string
	logger         *zap.Logger
}

type Option func(*Summarizer)

func WithTokenCounter(c TokenCounter) Option {
	return func(s *Summarizer) { s.counter = c }
}

func WithFeedbackStore(fs FeedbackStore) Option {
	return func(s *Summarizer) { s.store = fs }
}

func WithModel(model string) Option {
	return func(s *Summarizer) { s.model = model }
}

// WithMaxInputTokens sets the article body budget. Zero disables truncation.
func WithMaxInputTokens(n int) Option {
	return func(s *Summarizer) { s.maxInputTokens = n }
}

func WithSystemPrompt(p string) Option {
	return func(s *Summarizer) { s.systemPrompt = p }
}

func NewSummarizer(r Responder, logger *zap.Logger, opts ...Option) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Summarizer{
		responder:      r,
		counter:        EstimatorCounter{},
		model:          DefaultModel,
		maxInputTokens: DefaultMaxInputTokens,
		systemPrompt:   DefaultSystemPrompt,
		logger:         logger.With(zap.String("component", "summary")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks the Responses API for a short summary of a.
func (s *Summarizer) Summarize(ctx context.Context, a Article) (*Summary, error) {
	if strings.TrimSpace(a.Body) == "" {
		return nil, types.NewError(types.ErrInvalidRequest, "article body is empty")
	}

	body, truncated := Truncate(s.counter, a.Body, s.maxInputTokens)
	if truncated {
		s.logger.Debug("article body truncated",
			zap.String("article_id", a.ID), zap.Int("budget", s.maxInputTokens))
	}

	var user strings.Builder
	if a.Title != "" {
		fmt.Fprintf(&user, "Title: %s\n\n", a.Title)
	}
	user.WriteString(body)

	input := []openai.ResponsesMessage{
		openai.SystemMessage(s.systemPrompt),
		openai.UserTextMessage(user.String()),
	}
	text, err := s.responder.SendResponsesMessage(ctx, input, &openai.ResponsesRequest{Model: s.model})
	if err != nil {
		return nil, fmt.Errorf("summarize article %q: %w", a.ID, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, types.Errorf(types.ErrEmptyResponse, "empty summary for article %q", a.ID)
	}

	return &Summary{
		ArticleID: a.ID,
		Text:      text,
		Links:     a.Links,
		Questions: a.Questions,
		Model:     s.model,
		Truncated: truncated,
	}, nil
}

// RecordFeedback validates fb and hands it to the feedback store.
// Without a store the vote is only logged.
func (s *Summarizer) RecordFeedback(ctx context.Context, fb Feedback) error {
	if fb.ArticleID == "" {
		return types.NewError(types.ErrInvalidRequest, "feedback requires an article id")
	}
	if !fb.Rating.Valid() {
		return types.Errorf(types.ErrInvalidRequest, "invalid feedback rating %q", fb.Rating)
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	s.logger.Info("summary feedback",
		zap.String("article_id", fb.ArticleID),
		zap.String("question_id", fb.QuestionID),
		zap.String("rating", string(fb.Rating)))

	if s.store == nil {
		return nil
	}
	if err := s.store.SaveFeedback(ctx, fb); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}
