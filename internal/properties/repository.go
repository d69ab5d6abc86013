package properties

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// Repository wires together listing persistence plus the membership tables.
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

// FindByID loads the listing without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var row models.Property
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a new listing row.
func (r *Repository) Create(ctx context.Context, row *models.Property) (*models.Property, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing listing row.
func (r *Repository) Update(ctx context.Context, row *models.Property) (*models.Property, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a listing by ID; dependent rows go with it via FK cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Property{}).Error
}

// ListAmenityIDs returns the persisted amenity membership for the listing.
func (r *Repository) ListAmenityIDs(ctx context.Context, propertyID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PropertyAmenity{}).
		Where("property_id = ?", propertyID).
		Pluck("amenity_id", &ids).
		Error
	return ids, err
}

// AddAmenities inserts the given membership pairs.
func (r *Repository) AddAmenities(ctx context.Context, propertyID uuid.UUID, amenityIDs []uuid.UUID) error {
	if len(amenityIDs) == 0 {
		return nil
	}
	rows := make([]models.PropertyAmenity, 0, len(amenityIDs))
	for _, id := range amenityIDs {
		rows = append(rows, models.PropertyAmenity{PropertyID: propertyID, AmenityID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// RemoveAmenities deletes exactly the given membership pairs.
func (r *Repository) RemoveAmenities(ctx context.Context, propertyID uuid.UUID, amenityIDs []uuid.UUID) error {
	if len(amenityIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("property_id = ? AND amenity_id IN ?", propertyID, amenityIDs).
		Delete(&models.PropertyAmenity{}).
		Error
}

// ListSellerIDs returns the persisted co-seller membership for the listing.
func (r *Repository) ListSellerIDs(ctx context.Context, propertyID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PropertySeller{}).
		Where("property_id = ?", propertyID).
		Pluck("seller_id", &ids).
		Error
	return ids, err
}

// AddSellers inserts the given membership pairs.
func (r *Repository) AddSellers(ctx context.Context, propertyID uuid.UUID, sellerIDs []uuid.UUID) error {
	if len(sellerIDs) == 0 {
		return nil
	}
	rows := make([]models.PropertySeller, 0, len(sellerIDs))
	for _, id := range sellerIDs {
		rows = append(rows, models.PropertySeller{PropertyID: propertyID, SellerID: id})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// RemoveSellers deletes exactly the given membership pairs.
func (r *Repository) RemoveSellers(ctx context.Context, propertyID uuid.UUID, sellerIDs []uuid.UUID) error {
	if len(sellerIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("property_id = ? AND seller_id IN ?", propertyID, sellerIDs).
		Delete(&models.PropertySeller{}).
		Error
}

// ListVideoURLs returns the listing's video urls in insertion order.
func (r *Repository) ListVideoURLs(ctx context.Context, propertyID uuid.UUID) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&models.PropertyVideo{}).
		Where("property_id = ?", propertyID).
		Order("created_at ASC").
		Pluck("url", &urls).
		Error
	return urls, err
}

// ReplaceVideos deletes every video row for the listing and inserts the new
// set. The insert is skipped entirely when the new set is empty.
func (r *Repository) ReplaceVideos(ctx context.Context, propertyID uuid.UUID, urls []string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("property_id = ?", propertyID).Delete(&models.PropertyVideo{}).Error; err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	rows := make([]models.PropertyVideo, 0, len(urls))
	for _, url := range urls {
		rows = append(rows, models.PropertyVideo{ID: uuid.New(), PropertyID: propertyID, URL: url})
	}
	return tx.Create(&rows).Error
}

// List pages listings newest-first with the browse filters applied.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.Property, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.Property{})

	if search := strings.TrimSpace(input.Filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(title) LIKE ? OR LOWER(address) LIKE ?)", pattern, pattern)
	}
	if city := strings.TrimSpace(input.Filters.City); city != "" {
		qb = qb.Where("city = ?", city)
	}
	if district := strings.TrimSpace(input.Filters.District); district != "" {
		qb = qb.Where("district = ?", district)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Property
	err = qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}
