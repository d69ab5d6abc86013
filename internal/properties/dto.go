package properties

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/enums"
)

// SaveInput is the validated payload for creating or updating a listing with
// its dependent collections.
type SaveInput struct {
	ID          *uuid.UUID
	Title       string
	ListingType enums.ListingType
	Price       decimal.Decimal
	Currency    string
	Negotiable  bool
	Area        float64
	Address     string
	Ward        *string
	District    string
	City        string
	ProjectID   *uuid.UUID
	Status      enums.PropertyStatus
	Bedrooms    *int
	Bathrooms   *int
	Floors      *int
	FloorNumber *int
	Featured    bool
	Verified    bool

	AmenityIDs []uuid.UUID
	SellerIDs  []uuid.UUID
	VideoURLs  []string
}

// PropertyDTO is the read shape returned by the service.
type PropertyDTO struct {
	ID          uuid.UUID            `json:"id"`
	Title       string               `json:"title"`
	ListingType enums.ListingType    `json:"listing_type"`
	Price       decimal.Decimal      `json:"price"`
	Currency    string               `json:"currency"`
	Negotiable  bool                 `json:"negotiable"`
	Area        float64              `json:"area"`
	Address     string               `json:"address"`
	Ward        *string              `json:"ward,omitempty"`
	District    string               `json:"district"`
	City        string               `json:"city"`
	ProjectID   *uuid.UUID           `json:"project_id,omitempty"`
	Status      enums.PropertyStatus `json:"status"`
	Bedrooms    *int                 `json:"bedrooms,omitempty"`
	Bathrooms   *int                 `json:"bathrooms,omitempty"`
	Floors      *int                 `json:"floors,omitempty"`
	FloorNumber *int                 `json:"floor_number,omitempty"`
	Featured    bool                 `json:"featured"`
	Verified    bool                 `json:"verified"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	AmenityIDs []uuid.UUID `json:"amenity_ids"`
	SellerIDs  []uuid.UUID `json:"seller_ids"`
	VideoURLs  []string    `json:"video_urls"`
}

func toDTO(row *models.Property, amenityIDs, sellerIDs []uuid.UUID, videoURLs []string) *PropertyDTO {
	if amenityIDs == nil {
		amenityIDs = []uuid.UUID{}
	}
	if sellerIDs == nil {
		sellerIDs = []uuid.UUID{}
	}
	if videoURLs == nil {
		videoURLs = []string{}
	}
	return &PropertyDTO{
		ID:          row.ID,
		Title:       row.Title,
		ListingType: row.ListingType,
		Price:       row.Price,
		Currency:    row.Currency,
		Negotiable:  row.Negotiable,
		Area:        row.Area,
		Address:     row.Address,
		Ward:        row.Ward,
		District:    row.District,
		City:        row.City,
		ProjectID:   row.ProjectID,
		Status:      row.Status,
		Bedrooms:    row.Bedrooms,
		Bathrooms:   row.Bathrooms,
		Floors:      row.Floors,
		FloorNumber: row.FloorNumber,
		Featured:    row.Featured,
		Verified:    row.Verified,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		AmenityIDs:  amenityIDs,
		SellerIDs:   sellerIDs,
		VideoURLs:   videoURLs,
	}
}

var videoBlobSplitRe = regexp.MustCompile(`\r?\n`)

// SplitVideoURLs turns the admin form's newline-delimited blob into a clean
// url list: trimmed, blanks dropped.
func SplitVideoURLs(blob string) []string {
	parts := videoBlobSplitRe.Split(blob, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
