package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/scrumbot-backend/internal/domain"
)

// OutcomeKind tags how a stage ended.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	// OutcomeDegraded means the stage substituted a safe default.
	OutcomeDegraded
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeDegraded:
		return "degraded"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the result of one stage. Value is meaningful for OK and
// Degraded; Err is set only for Failed.
type Outcome[T any] struct {
	Kind   OutcomeKind
	Value  T
	Reason string
	Err    error
}

func ok[T any](v T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeOK, Value: v}
}

func degraded[T any](v T, reason string) Outcome[T] {
	return Outcome[T]{Kind: OutcomeDegraded, Value: v, Reason: reason}
}

func failed[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: OutcomeFailed, Err: err, Reason: err.Error()}
}

// settle turns a stage outcome into a value or a *domain.StageError.
// Degradations are appended to run, or escalated when failOnDegraded is set.
func settle[T any](ctx context.Context, r *run, stage domain.Stage, o Outcome[T]) (T, error) {
	var zero T
	switch o.Kind {
	case OutcomeFailed:
		return zero, domain.NewStageError(stage, o.Err)
	case OutcomeDegraded:
		r.log.WarnContext(ctx, "stage degraded", slog.String("stage", string(stage)), slog.String("reason", o.Reason))
		if r.failOnDegraded {
			return zero, domain.NewStageError(stage, fmt.Errorf("degraded: %s", o.Reason))
		}
		r.degradations = append(r.degradations, domain.Degradation{Stage: stage, Reason: o.Reason})
	}
	return o.Value, nil
}
