package jobs

import "context"

// Record describes a submitted generation job.
type Record struct {
	ID         string
	Provider   string
	Kind       string // image | video
	Prompt     string
	ModelID    string
	ResultHref string
}

// Ledger persists job submissions and outcomes. Implementations must be safe
// for concurrent use.
type Ledger interface {
	Submitted(ctx context.Context, rec Record) error
	// Finished records a terminal outcome; err is nil on success.
	Finished(ctx context.Context, id string, outputURLs []string, err error) error
}
