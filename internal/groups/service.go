package groups

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/enums"
	pkgerrors "github.com/quyetngv/bds-backend/pkg/errors"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// SaveGroupInput holds the validated payload to create or update a group.
type SaveGroupInput struct {
	Name     string
	GroupID  *string
	URL      *string
	Kind     enums.GroupKind
	IsActive bool
	Note     *string
}

// ListInput captures list/search knobs for the group screen.
type ListInput struct {
	Query      string
	Kind       *enums.GroupKind
	IsActive   *bool
	Pagination pagination.Params
}

// ListResult is one page of groups plus the cursor for the next page.
type ListResult struct {
	Groups     []models.FbGroup `json:"groups"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// Service exposes group management operations.
type Service interface {
	Create(ctx context.Context, input SaveGroupInput) (*models.FbGroup, error)
	Update(ctx context.Context, id uuid.UUID, input SaveGroupInput) (*models.FbGroup, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*models.FbGroup, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	ListEligibleTargets(ctx context.Context) ([]models.FbGroup, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a group service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input SaveGroupInput) (*models.FbGroup, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	row := &models.FbGroup{
		Name:     strings.TrimSpace(input.Name),
		GroupID:  normalizeOptional(input.GroupID),
		URL:      normalizeOptional(input.URL),
		Kind:     input.Kind,
		IsActive: input.IsActive,
		Note:     normalizeOptional(input.Note),
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert group")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input SaveGroupInput) (*models.FbGroup, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}

	existing.Name = strings.TrimSpace(input.Name)
	existing.GroupID = normalizeOptional(input.GroupID)
	existing.URL = normalizeOptional(input.URL)
	existing.Kind = input.Kind
	existing.IsActive = input.IsActive
	existing.Note = normalizeOptional(input.Note)

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update group")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete group")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.FbGroup, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group")
	}
	return row, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list groups")
	}
	if rows == nil {
		rows = []models.FbGroup{}
	}
	return &ListResult{Groups: rows, NextCursor: nextCursor}, nil
}

func (s *service) ListEligibleTargets(ctx context.Context) ([]models.FbGroup, error) {
	rows, err := s.repo.ListEligibleTargets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list eligible targets")
	}
	return rows, nil
}

func validateInput(input SaveGroupInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid kind")
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
