package groups

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/enums"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// Repository persists configured Facebook groups.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads one group row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FbGroup, error) {
	var row models.FbGroup
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Create inserts a group row.
func (r *Repository) Create(ctx context.Context, row *models.FbGroup) (*models.FbGroup, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Update saves an existing group row.
func (r *Repository) Update(ctx context.Context, row *models.FbGroup) (*models.FbGroup, error) {
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes a group row by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.FbGroup{}).Error
}

// List pages groups newest-first with free-text search across name, external
// id, url and note.
func (r *Repository) List(ctx context.Context, input ListInput) ([]models.FbGroup, string, error) {
	pageSize := pagination.NormalizeLimit(input.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(input.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.FbGroup{})

	if search := strings.TrimSpace(input.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(name) LIKE ? OR LOWER(COALESCE(group_id, '')) LIKE ? OR LOWER(COALESCE(url, '')) LIKE ? OR LOWER(COALESCE(note, '')) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
	if input.Kind != nil {
		qb = qb.Where("kind = ?", *input.Kind)
	}
	if input.IsActive != nil {
		qb = qb.Where("is_active = ?", *input.IsActive)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.FbGroup
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

// ListEligibleTargets returns the groups fan-out may post to: active target
// groups with an external id configured.
func (r *Repository) ListEligibleTargets(ctx context.Context) ([]models.FbGroup, error) {
	var rows []models.FbGroup
	err := r.db.WithContext(ctx).
		Where("kind = ?", enums.GroupKindTarget).
		Where("is_active = ?", true).
		Where("group_id IS NOT NULL AND group_id <> ''").
		Order("name ASC").
		Find(&rows).
		Error
	return rows, err
}
