package properties

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/db/models"
	pkgerrors "github.com/quyetngv/bds-backend/pkg/errors"
	"github.com/quyetngv/bds-backend/pkg/logger"
)

// Service exposes listing management operations.
type Service interface {
	Save(ctx context.Context, input SaveInput) (*PropertyDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PropertyDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
}

// NewService constructs a listing service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property repository required")
	}
	if dbClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

// Save upserts the root row and converges the dependent collections: videos
// are replaced wholesale, amenity and co-seller membership move by pair diff
// against membership read fresh inside the same transaction. Any step error
// rolls the whole save back.
func (s *service) Save(ctx context.Context, input SaveInput) (*PropertyDTO, error) {
	if err := validateSaveInput(input); err != nil {
		return nil, err
	}

	var saved *models.Property
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		row, err := s.upsertRoot(ctx, txRepo, input)
		if err != nil {
			return err
		}

		if err := txRepo.ReplaceVideos(ctx, row.ID, input.VideoURLs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace videos")
		}

		if err := s.reconcileAmenities(ctx, txRepo, row.ID, input.AmenityIDs); err != nil {
			return err
		}
		if err := s.reconcileSellers(ctx, txRepo, row.ID, input.SellerIDs); err != nil {
			return err
		}

		saved = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithPropertyID(ctx, saved.ID.String())
		s.logg.Info(logCtx, "property saved")
	}
	return s.loadDTO(ctx, saved)
}

func (s *service) upsertRoot(ctx context.Context, txRepo *Repository, input SaveInput) (*models.Property, error) {
	if input.ID == nil {
		row := rowFromInput(input)
		created, err := txRepo.Create(ctx, row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert property")
		}
		return created, nil
	}

	existing, err := txRepo.FindByID(ctx, *input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}

	applyInput(existing, input)
	updated, err := txRepo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update property")
	}
	return updated, nil
}

func (s *service) reconcileAmenities(ctx context.Context, txRepo *Repository, propertyID uuid.UUID, desired []uuid.UUID) error {
	current, err := txRepo.ListAmenityIDs(ctx, propertyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read amenity membership")
	}
	diff := DiffMembership(current, desired)
	if diff.Empty() {
		return nil
	}
	if err := txRepo.AddAmenities(ctx, propertyID, diff.ToInsert); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert amenity membership")
	}
	if err := txRepo.RemoveAmenities(ctx, propertyID, diff.ToDelete); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete amenity membership")
	}
	return nil
}

func (s *service) reconcileSellers(ctx context.Context, txRepo *Repository, propertyID uuid.UUID, desired []uuid.UUID) error {
	current, err := txRepo.ListSellerIDs(ctx, propertyID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read seller membership")
	}
	diff := DiffMembership(current, desired)
	if diff.Empty() {
		return nil
	}
	if err := txRepo.AddSellers(ctx, propertyID, diff.ToInsert); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert seller membership")
	}
	if err := txRepo.RemoveSellers(ctx, propertyID, diff.ToDelete); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete seller membership")
	}
	return nil
}

// Get returns the listing with its collections.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*PropertyDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	return s.loadDTO(ctx, row)
}

// Delete removes the listing.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete property")
	}
	return nil
}

// List pages listings newest-first.
func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	rows, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list properties")
	}

	out := make([]PropertyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i], nil, nil, nil))
	}
	return &ListResult{Properties: out, NextCursor: nextCursor}, nil
}

func (s *service) loadDTO(ctx context.Context, row *models.Property) (*PropertyDTO, error) {
	amenityIDs, err := s.repo.ListAmenityIDs(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read amenity membership")
	}
	sellerIDs, err := s.repo.ListSellerIDs(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read seller membership")
	}
	videoURLs, err := s.repo.ListVideoURLs(ctx, row.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read videos")
	}
	return toDTO(row, amenityIDs, sellerIDs, videoURLs), nil
}

func validateSaveInput(input SaveInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if !input.ListingType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid listing_type")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Area < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "area cannot be negative")
	}
	return nil
}

func rowFromInput(input SaveInput) *models.Property {
	row := &models.Property{
		Title:       strings.TrimSpace(input.Title),
		ListingType: input.ListingType,
		Price:       input.Price,
		Currency:    input.Currency,
		Negotiable:  input.Negotiable,
		Area:        input.Area,
		Address:     input.Address,
		Ward:        input.Ward,
		District:    input.District,
		City:        input.City,
		ProjectID:   input.ProjectID,
		Status:      input.Status,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Floors:      input.Floors,
		FloorNumber: input.FloorNumber,
		Featured:    input.Featured,
		Verified:    input.Verified,
	}
	if row.Currency == "" {
		row.Currency = "VND"
	}
	return row
}

func applyInput(row *models.Property, input SaveInput) {
	row.Title = strings.TrimSpace(input.Title)
	row.ListingType = input.ListingType
	row.Price = input.Price
	if input.Currency != "" {
		row.Currency = input.Currency
	}
	row.Negotiable = input.Negotiable
	row.Area = input.Area
	row.Address = input.Address
	row.Ward = input.Ward
	row.District = input.District
	row.City = input.City
	row.ProjectID = input.ProjectID
	row.Status = input.Status
	row.Bedrooms = input.Bedrooms
	row.Bathrooms = input.Bathrooms
	row.Floors = input.Floors
	row.FloorNumber = input.FloorNumber
	row.Featured = input.Featured
	row.Verified = input.Verified
}
