package jobs

import (
	"context"
	"time"

	"github.com/BaSui01/genbridge/retry"
	"github.com/BaSui01/genbridge/types"

	"go.uber.org/zap"
)

// Phase is the lifecycle state reported by one status fetch.
type Phase int

const (
	PhasePending Phase = iota
	PhaseInProgress
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in_progress"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Status is the classified result of one fetch.
type Status[T any] struct {
	Phase    Phase
	Progress float64
	Result   T
	Reason   string
}

// FetchFunc retrieves and classifies the current state of jobID.
type FetchFunc[T any] func(ctx context.Context, jobID string) (Status[T], error)

// Policy bounds polling.
type Policy struct {
	Interval    time.Duration `json:"interval" yaml:"interval"`
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts"`
}

// DefaultPolicy polls every 2s for up to 30 attempts.
func DefaultPolicy() Policy {
	return Policy{Interval: 2 * time.Second, MaxAttempts: 30}
}

// Recorder observes every fetch.
type Recorder interface {
	RecordPoll(provider string, phase Phase)
}

// Option customizes a Poller.
type Option func(*Poller)

// WithSleep replaces the interval sleeper.
func WithSleep(fn retry.SleepFunc) Option {
	return func(p *Poller) {
		if fn != nil {
			p.sleep = fn
		}
	}
}

// WithRecorder installs a poll recorder.
func WithRecorder(r Recorder) Option {
	return func(p *Poller) { p.recorder = r }
}

// WithName labels the poller in logs and metrics.
func WithName(name string) Option {
	return func(p *Poller) { p.name = name }
}

// Poller repeatedly fetches job status until a terminal result.
type Poller struct {
	policy   Policy
	name     string
	sleep    retry.SleepFunc
	recorder Recorder
	logger   *zap.Logger
}

// NewPoller creates a poller.
func NewPoller(policy Policy, logger *zap.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Interval < 0 {
		policy.Interval = 0
	}
	p := &Poller{
		policy: policy,
		sleep:  retry.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logger.With(zap.String("component", "job_poller"), zap.String("provider", p.name))
	return p
}

// Policy returns the poller's policy.
func (p *Poller) Policy() Policy { return p.policy }

// Poll fetches until Done, returning the result. An InProgress status counts
// one attempt; any other non-Done phase is a protocol mismatch. Fetch errors
// are returned as is.
func Poll[T any](ctx context.Context, p *Poller, jobID string, fetch FetchFunc[T]) (T, error) {
	var zero T
	max := p.policy.MaxAttempts

	for attempts := 0; attempts < max; {
		st, err := fetch(ctx, jobID)
		if err != nil {
			return zero, err
		}
		if p.recorder != nil {
			p.recorder.RecordPoll(p.name, st.Phase)
		}

		switch st.Phase {
		case PhaseDone:
			p.logger.Debug("job completed", zap.String("job_id", jobID), zap.Int("attempts", attempts+1))
			return st.Result, nil
		case PhaseInProgress:
			attempts++
			p.logger.Debug("job in progress",
				zap.String("job_id", jobID),
				zap.Int("attempt", attempts),
				zap.Float64("progress", st.Progress))
			if attempts < max {
				if err := p.sleep(ctx, p.policy.Interval); err != nil {
					return zero, err
				}
			}
		default:
			msg := "Job failed or returned unexpected result"
			if st.Reason != "" {
				msg += ": " + st.Reason
			}
			return zero, types.NewError(types.ErrProtocolMismatch, msg).WithProvider(p.name)
		}
	}

	p.logger.Warn("job polling timed out", zap.String("job_id", jobID), zap.Int("max_attempts", max))
	return zero, types.Errorf(types.ErrPollTimeout, "Job polling timed out after %d attempts", max).WithProvider(p.name)
}
