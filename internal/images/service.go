// Package images manages the ordered gallery of a listing. The single-primary
// rule is maintained by this code path (clear then set inside one
// transaction), not by a store constraint; readers fall back to
// first-by-order when no row carries the flag.
package images

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/db/models"
	pkgerrors "github.com/quyetngv/bds-backend/pkg/errors"
)

// Service exposes gallery operations.
type Service interface {
	Append(ctx context.Context, propertyID uuid.UUID, url string, caption *string) (*models.PropertyImage, error)
	SetPrimary(ctx context.Context, propertyID, imageID uuid.UUID) error
	Remove(ctx context.Context, imageID uuid.UUID) error
	List(ctx context.Context, propertyID uuid.UUID) ([]models.PropertyImage, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a gallery service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image repository required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// Append adds a row at display_order = max(existing)+1. Gaps left by removals
// are preserved, never compacted.
func (s *service) Append(ctx context.Context, propertyID uuid.UUID, url string, caption *string) (*models.PropertyImage, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	if strings.TrimSpace(url) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "url is required")
	}

	var created *models.PropertyImage
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		maxOrder, err := txRepo.MaxDisplayOrder(ctx, propertyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read max display order")
		}
		row := &models.PropertyImage{
			PropertyID:   propertyID,
			URL:          strings.TrimSpace(url),
			Caption:      caption,
			DisplayOrder: maxOrder + 1,
		}
		created, err = txRepo.Create(ctx, row)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert image")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// SetPrimary clears the flag on every row of the listing and raises it on the
// chosen one, both inside one transaction.
func (s *service) SetPrimary(ctx context.Context, propertyID, imageID uuid.UUID) error {
	if propertyID == uuid.Nil || imageID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "property id and image id are required")
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ClearPrimary(ctx, propertyID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear primary flag")
		}
		affected, err := txRepo.SetPrimary(ctx, propertyID, imageID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set primary flag")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found for property")
		}
		return nil
	})
}

// Remove deletes the row. When the removed image was primary, no replacement
// is auto-selected; the operator re-picks one.
func (s *service) Remove(ctx context.Context, imageID uuid.UUID) error {
	if imageID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "image id is required")
	}
	if _, err := s.repo.FindByID(ctx, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load image")
	}
	if err := s.repo.Delete(ctx, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
	}
	return nil
}

// List returns the gallery ordered by display_order, then created_at.
func (s *service) List(ctx context.Context, propertyID uuid.UUID) ([]models.PropertyImage, error) {
	if propertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id is required")
	}
	rows, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list images")
	}
	return rows, nil
}
