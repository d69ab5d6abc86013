package publish

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

// Repository persists and reads the append-only publish audit trail. Rows are
// never updated by the API process; relay workers finalize pending rows out
// of band.
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

// InsertAttempt appends a single delivery record.
func (r *Repository) InsertAttempt(ctx context.Context, row *models.FbPublishedPost) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(row).Error
}

// HistoryFilters narrows the audit listing.
type HistoryFilters struct {
	// Status filters to one terminal or pending state. Empty or "all"
	// returns every row.
	Status string
	// Query matches group id, group name, property id, message, or the
	// provider post id, case-insensitively.
	Query string
	// PropertyID limits the listing to one property when non-nil.
	PropertyID *uuid.UUID
}

// ListHistory returns audit rows newest-first with cursor pagination.
func (r *Repository) ListHistory(ctx context.Context, filters HistoryFilters, page pagination.Params) ([]models.FbPublishedPost, string, error) {
	pageSize := pagination.NormalizeLimit(page.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(page.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).Model(&models.FbPublishedPost{})

	if filters.Status != "" && filters.Status != "all" {
		qb = qb.Where("status = ?", filters.Status)
	}
	if filters.PropertyID != nil {
		qb = qb.Where("property_id = ?", *filters.PropertyID)
	}
	if term := strings.TrimSpace(filters.Query); term != "" {
		pattern := "%" + strings.ToLower(term) + "%"
		qb = qb.Where(
			"(LOWER(group_id) LIKE ? OR LOWER(group_name) LIKE ? OR LOWER(CAST(property_id AS TEXT)) LIKE ? OR LOWER(message) LIKE ? OR LOWER(COALESCE(result_post_id, '')) LIKE ?)",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.FbPublishedPost
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
