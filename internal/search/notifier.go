// Package search signals an external search indexer about content
// changes. The backend does not query the index itself; it only tells
// the indexer which submissions became visible or invisible.
package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
	"github.com/opencatechism/catechesis-backend/internal/event"
)

// Notifier receives visibility changes for approved submissions.
type Notifier interface {
	IndexSubmission(ctx context.Context, submissionID uuid.UUID) error
	RemoveSubmission(ctx context.Context, submissionID uuid.UUID) error
}

// LogNotifier is the default Notifier: it records the signal and does
// nothing else. Swap in a real indexer client here when one exists.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(slog.String("component", "search"))}
}

func (n *LogNotifier) IndexSubmission(ctx context.Context, submissionID uuid.UUID) error {
	n.log.InfoContext(ctx, "index submission", slog.String("submission_id", submissionID.String()))
	return nil
}

func (n *LogNotifier) RemoveSubmission(ctx context.Context, submissionID uuid.UUID) error {
	n.log.InfoContext(ctx, "remove submission from index", slog.String("submission_id", submissionID.String()))
	return nil
}

// RegisterHandlers subscribes the notifier to the events that change a
// submission's public visibility. Delivery is fire-and-forget like every
// other dispatcher handler.
func RegisterHandlers(d *event.Dispatcher, n Notifier) {
	d.Subscribe(domain.EventSubmissionApproved, func(ctx context.Context, e domain.Event) error {
		approved, ok := e.(domain.SubmissionApproved)
		if !ok {
			return fmt.Errorf("unexpected payload %T for %s", e, e.Name())
		}
		return n.IndexSubmission(ctx, approved.SubmissionID)
	})
}
