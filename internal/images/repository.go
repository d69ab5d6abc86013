package images

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db/models"
)

// Repository persists gallery rows for property listings.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads one gallery row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PropertyImage, error) {
	var row models.PropertyImage
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByProperty returns the gallery ordered for display.
func (r *Repository) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.PropertyImage, error) {
	var rows []models.PropertyImage
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// MaxDisplayOrder returns the highest display_order for the listing, zero
// when the gallery is empty.
func (r *Repository) MaxDisplayOrder(ctx context.Context, propertyID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Select("MAX(display_order)").
		Scan(&max).
		Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// Create inserts a gallery row.
func (r *Repository) Create(ctx context.Context, row *models.PropertyImage) (*models.PropertyImage, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ClearPrimary drops the primary flag on every row of the listing.
func (r *Repository) ClearPrimary(ctx context.Context, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PropertyImage{}).
		Where("property_id = ?", propertyID).
		Update("is_primary", false).
		Error
}

// SetPrimary raises the primary flag on one row of the listing.
func (r *Repository) SetPrimary(ctx context.Context, propertyID, imageID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PropertyImage{}).
		Where("id = ? AND property_id = ?", imageID, propertyID).
		Update("is_primary", true)
	return result.RowsAffected, result.Error
}

// Delete removes a gallery row unconditionally.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PropertyImage{}).Error
}
