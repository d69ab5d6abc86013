package publish

import (
	"context"

	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/metrics"
)

// ErrMissingToken is the per-target error code synthesized when no Graph API
// credential is configured. Callers rely on logging structured failure even
// in total misconfiguration, so this path returns normally.
const ErrMissingToken = "fb_access_token_missing"

// Target is one fan-out destination.
type Target struct {
	GroupID   string
	GroupName string
}

// Result is the outcome of one delivery attempt. Exactly one result is
// produced per target, in input order.
type Result struct {
	GroupID string  `json:"groupId"`
	OK      bool    `json:"ok"`
	PostID  *string `json:"postId,omitempty"`
	Error   *string `json:"error,omitempty"`
}

type graphPoster interface {
	HasToken() bool
	PostToGroupFeed(ctx context.Context, groupID, message string) (string, error)
}

// Dispatcher posts one message to many groups. Attempts are independent:
// a failed target never blocks or alters the others, and no retry happens
// here — retry is the operator re-publishing.
type Dispatcher struct {
	poster  graphPoster
	metrics *metrics.PublishMetrics
	logg    *logger.Logger
}

// NewDispatcher constructs a fan-out dispatcher.
func NewDispatcher(poster graphPoster, m *metrics.PublishMetrics, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{poster: poster, metrics: m, logg: logg}
}

// Dispatch attempts delivery to each target sequentially and returns one
// result per target, input order preserved. With no credential configured it
// performs zero network calls and marks every target failed.
func (d *Dispatcher) Dispatch(ctx context.Context, message string, targets []Target) []Result {
	results := make([]Result, 0, len(targets))

	if d.poster == nil || !d.poster.HasToken() {
		code := ErrMissingToken
		for _, target := range targets {
			results = append(results, Result{GroupID: target.GroupID, Error: &code})
		}
		return results
	}

	for _, target := range targets {
		d.metrics.IncAttempt(target.GroupID)

		postID, err := d.poster.PostToGroupFeed(ctx, target.GroupID, message)
		if err != nil {
			msg := err.Error()
			results = append(results, Result{GroupID: target.GroupID, Error: &msg})
			d.metrics.IncFailure(target.GroupID)
			if d.logg != nil {
				logCtx := d.logg.WithField(ctx, "group_id", target.GroupID)
				d.logg.Warn(logCtx, "fan-out delivery failed")
			}
			continue
		}

		results = append(results, Result{GroupID: target.GroupID, OK: true, PostID: &postID})
		d.metrics.IncSuccess(target.GroupID)
	}
	return results
}
