package contact

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Recorder persists submissions. The sqlite store satisfies it via an adapter
// in the web package.
type Recorder interface {
	Record(ctx context.Context, s Submission) (string, error)
	MarkDelivered(ctx context.Context, id string) error
}

// Result is what the visitor is told after submitting.
type Result struct {
	ID       string         `json:"id,omitempty"`
	Sent     bool           `json:"sent"`
	Fallback *FallbackLinks `json:"fallback,omitempty"`
}

// Options configures a Service.
type Options struct {
	OwnerEmail  string
	OwnerPhone  string
	MaxAttempts int
	BaseDelay   time.Duration
	Timeout     time.Duration
	Logger      *slog.Logger
	// Observe is called once per submission with the delivery outcome.
	Observe func(outcome string)
}

// Service relays contact submissions.
type Service struct {
	mailer   Mailer
	recorder Recorder
	opts     Options
}

// NewService creates a Service. recorder may be nil.
func NewService(mailer Mailer, recorder Recorder, opts Options) *Service {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{mailer: mailer, recorder: recorder, opts: opts}
}

// Submit stores and relays s. Delivery failures are not returned as errors:
// the Result carries fallback links instead. Only a validation failure
// returns an error.
func (svc *Service) Submit(ctx context.Context, s Submission) (Result, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		svc.observe("invalid")
		return Result{}, err
	}

	var res Result
	if svc.recorder != nil {
		id, err := svc.recorder.Record(ctx, s)
		if err != nil {
			svc.opts.Logger.Error("failed to store contact message", "error", err)
		}
		res.ID = id
	}

	if err := svc.deliver(ctx, s); err != nil {
		svc.opts.Logger.Warn("contact relay failed, offering fallback",
			"error", err,
			"email", s.Email,
		)
		links := Fallback(s, svc.opts.OwnerEmail, svc.opts.OwnerPhone)
		res.Fallback = &links
		svc.observe("failed")
		return res, nil
	}

	res.Sent = true
	svc.observe("sent")
	if svc.recorder != nil && res.ID != "" {
		if err := svc.recorder.MarkDelivered(ctx, res.ID); err != nil {
			svc.opts.Logger.Error("failed to mark message delivered", "id", res.ID, "error", err)
		}
	}
	svc.opts.Logger.Info("contact message sent", "id", res.ID)
	return res, nil
}

func (svc *Service) deliver(ctx context.Context, s Submission) error {
	ctx, cancel := context.WithTimeout(ctx, svc.opts.Timeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = svc.opts.BaseDelay
	policy.MaxElapsedTime = 0

	b := backoff.WithContext(
		backoff.WithMaxRetries(policy, uint64(svc.opts.MaxAttempts-1)),
		ctx,
	)

	return backoff.Retry(func() error {
		err := svc.mailer.Send(ctx, s)
		if errors.Is(err, ErrNotConfigured) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func (svc *Service) observe(outcome string) {
	if svc.opts.Observe != nil {
		svc.opts.Observe(outcome)
	}
}
