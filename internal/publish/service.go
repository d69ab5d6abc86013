package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/internal/properties"
	"github.com/quyetngv/bds-backend/pkg/config"
	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/enums"
	pkgerrors "github.com/quyetngv/bds-backend/pkg/errors"
	"github.com/quyetngv/bds-backend/pkg/logger"
	"github.com/quyetngv/bds-backend/pkg/outbox"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// PublishInput requests a fan-out of one listing to every eligible group.
type PublishInput struct {
	PropertyID uuid.UUID
	// Message overrides the composed default when non-empty.
	Message string
}

// Outcome reports what one publish request did. In relay mode Results is
// empty and Queued is true: the audit rows exist as pending and the
// automation worker owns delivery.
type Outcome struct {
	PropertyID uuid.UUID `json:"property_id"`
	Message    string    `json:"message"`
	Mode       string    `json:"mode"`
	Queued     bool      `json:"queued"`
	Results    []Result  `json:"results"`
}

// HistoryResult is one page of the audit listing.
type HistoryResult struct {
	Records    []models.FbPublishedPost `json:"records"`
	NextCursor string                   `json:"next_cursor,omitempty"`
}

type propertyReader interface {
	Get(ctx context.Context, id uuid.UUID) (*properties.PropertyDTO, error)
}

type targetSource interface {
	ListEligibleTargets(ctx context.Context) ([]models.FbGroup, error)
}

// Service orchestrates listing fan-out and the audit trail around it.
type Service interface {
	// PublishProperty fans one listing out to every eligible target group.
	PublishProperty(ctx context.Context, input PublishInput) (*Outcome, error)
	// FanOut posts a raw message to explicit external group ids with no
	// audit rows. The second return reports a missing Graph credential.
	FanOut(ctx context.Context, message string, groupIDs []string) ([]Result, bool)
	// History reads the audit trail.
	History(ctx context.Context, filters HistoryFilters, page pagination.Params) (*HistoryResult, error)
}

type service struct {
	dbClient   *db.Client
	repo       *Repository
	dispatcher *Dispatcher
	outbox     *outbox.Service
	props      propertyReader
	targets    targetSource
	cfg        config.PublishConfig
	logg       *logger.Logger
}

func NewService(
	dbClient *db.Client,
	repo *Repository,
	dispatcher *Dispatcher,
	outboxSvc *outbox.Service,
	props propertyReader,
	targets targetSource,
	cfg config.PublishConfig,
	logg *logger.Logger,
) (Service, error) {
	if dbClient == nil || repo == nil || dispatcher == nil {
		return nil, fmt.Errorf("publish service requires a db client, repository, and dispatcher")
	}
	return &service{
		dbClient:   dbClient,
		repo:       repo,
		dispatcher: dispatcher,
		outbox:     outboxSvc,
		props:      props,
		targets:    targets,
		cfg:        cfg,
		logg:       logg,
	}, nil
}

func (s *service) PublishProperty(ctx context.Context, input PublishInput) (*Outcome, error) {
	property, err := s.props.Get(ctx, input.PropertyID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.targets.ListEligibleTargets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list eligible target groups")
	}
	if len(eligible) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no eligible target groups configured")
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		message = ComposeMessage(property)
	}

	if s.cfg.IsRelay() {
		return s.enqueueRelay(ctx, property.ID, message, eligible)
	}
	return s.publishDirect(ctx, property.ID, message, eligible)
}

// publishDirect attempts every target in-process and appends one terminal
// audit row per result. Audit writes are independent of each other and of the
// delivery outcome: a failed insert is collected, never a rollback of the
// already-made Graph calls.
func (s *service) publishDirect(ctx context.Context, propertyID uuid.UUID, message string, eligible []models.FbGroup) (*Outcome, error) {
	dispatchTargets := make([]Target, 0, len(eligible))
	for _, group := range eligible {
		dispatchTargets = append(dispatchTargets, Target{GroupID: derefString(group.GroupID), GroupName: group.Name})
	}

	results := s.dispatcher.Dispatch(ctx, message, dispatchTargets)

	var auditErr error
	for i, result := range results {
		row := &models.FbPublishedPost{
			PropertyID:   propertyID,
			GroupID:      result.GroupID,
			GroupName:    dispatchTargets[i].GroupName,
			Message:      message,
			Status:       enums.PublishStatusFailed,
			ErrorMessage: result.Error,
		}
		if result.OK {
			row.Status = enums.PublishStatusSuccess
			row.ResultPostID = result.PostID
		}
		if err := s.repo.InsertAttempt(ctx, row); err != nil {
			auditErr = multierr.Append(auditErr, fmt.Errorf("record attempt for group %s: %w", result.GroupID, err))
		}
	}

	outcome := &Outcome{
		PropertyID: propertyID,
		Message:    message,
		Mode:       config.PublishModeDirect,
		Results:    results,
	}

	if s.logg != nil {
		logCtx := s.logg.WithPropertyID(ctx, propertyID.String())
		s.logg.Info(logCtx, "property fan-out dispatched")
	}
	if auditErr != nil {
		return outcome, pkgerrors.Wrap(pkgerrors.CodeDependency, auditErr, "record publish history")
	}
	return outcome, nil
}

// enqueueRelay reserves one pending audit row per target and queues a single
// outbox event naming those rows so the automation worker can finalize them.
// Row creation and the event share one transaction.
func (s *service) enqueueRelay(ctx context.Context, propertyID uuid.UUID, message string, eligible []models.FbGroup) (*Outcome, error) {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		eventTargets := make([]outbox.PublishTarget, 0, len(eligible))
		for _, group := range eligible {
			row := &models.FbPublishedPost{
				PropertyID: propertyID,
				GroupID:    derefString(group.GroupID),
				GroupName:  group.Name,
				Message:    message,
				Status:     enums.PublishStatusPending,
			}
			if err := txRepo.InsertAttempt(ctx, row); err != nil {
				return fmt.Errorf("reserve audit row for group %s: %w", row.GroupID, err)
			}
			eventTargets = append(eventTargets, outbox.PublishTarget{
				RecordID:  row.ID,
				GroupID:   row.GroupID,
				GroupName: row.GroupName,
			})
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPublishRequested,
			AggregateType: enums.AggregateProperty,
			AggregateID:   propertyID,
			Data: outbox.PublishRequestedData{
				PropertyID: propertyID,
				Message:    message,
				Targets:    eventTargets,
			},
			OccurredAt: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enqueue publish request")
	}

	if s.logg != nil {
		logCtx := s.logg.WithPropertyID(ctx, propertyID.String())
		s.logg.Info(logCtx, "property fan-out queued for relay")
	}
	return &Outcome{
		PropertyID: propertyID,
		Message:    message,
		Mode:       config.PublishModeRelay,
		Queued:     true,
		Results:    []Result{},
	}, nil
}

func (s *service) FanOut(ctx context.Context, message string, groupIDs []string) ([]Result, bool) {
	dispatchTargets := make([]Target, 0, len(groupIDs))
	for _, groupID := range groupIDs {
		dispatchTargets = append(dispatchTargets, Target{GroupID: groupID})
	}
	results := s.dispatcher.Dispatch(ctx, message, dispatchTargets)

	missingToken := false
	for _, result := range results {
		if result.Error != nil && *result.Error == ErrMissingToken {
			missingToken = true
			break
		}
	}
	return results, missingToken
}

func (s *service) History(ctx context.Context, filters HistoryFilters, page pagination.Params) (*HistoryResult, error) {
	if !validHistoryStatus(filters.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}

	rows, nextCursor, err := s.repo.ListHistory(ctx, filters, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list publish history")
	}
	if rows == nil {
		rows = []models.FbPublishedPost{}
	}
	return &HistoryResult{Records: rows, NextCursor: nextCursor}, nil
}

// ComposeMessage builds the default group post for a listing.
func ComposeMessage(property *properties.PropertyDTO) string {
	var b strings.Builder
	b.WriteString(property.Title)

	price := property.Price.String()
	if property.Currency != "" {
		price += " " + property.Currency
	}
	b.WriteString("\nGiá: " + price)

	if property.Area > 0 {
		b.WriteString(fmt.Sprintf("\nDiện tích: %g m2", property.Area))
	}

	location := joinNonEmpty(", ", property.Address, property.District, property.City)
	if location != "" {
		b.WriteString("\nĐịa chỉ: " + location)
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, sep)
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func validHistoryStatus(status string) bool {
	switch status {
	case "", "all":
		return true
	}
	return enums.PublishStatus(status).IsValid()
}
