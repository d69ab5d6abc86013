package properties_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quyetngv/bds-backend/internal/properties"
	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/db/dbtest"
	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/enums"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

func seedProperty(t *testing.T, client *db.Client, title, city, district string, createdAt time.Time) models.Property {
	t.Helper()
	row := models.Property{
		ID:          uuid.New(),
		Title:       title,
		ListingType: enums.ListingTypeSale,
		Price:       decimal.NewFromInt(1_500_000_000),
		Currency:    "VND",
		Area:        80,
		Address:     "12 Nguyen Hue",
		District:    district,
		City:        city,
		Status:      enums.PropertyStatusAvailable,
		CreatedAt:   createdAt,
	}
	require.NoError(t, client.DB().Create(&row).Error)
	return row
}

func TestMembershipWritesArePairScoped(t *testing.T) {
	client := dbtest.Open(t)
	repo := properties.NewRepository(client.DB())
	ctx := context.Background()

	base := time.Now().UTC()
	propA := seedProperty(t, client, "Nha A", "HCM", "Q1", base)
	propB := seedProperty(t, client, "Nha B", "HCM", "Q1", base)

	amenity1, amenity2 := uuid.New(), uuid.New()
	require.NoError(t, repo.AddAmenities(ctx, propA.ID, []uuid.UUID{amenity1, amenity2}))
	require.NoError(t, repo.AddAmenities(ctx, propB.ID, []uuid.UUID{amenity1}))

	// removing amenity1 from A must not touch B's pair
	require.NoError(t, repo.RemoveAmenities(ctx, propA.ID, []uuid.UUID{amenity1}))

	idsA, err := repo.ListAmenityIDs(ctx, propA.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{amenity2}, idsA)

	idsB, err := repo.ListAmenityIDs(ctx, propB.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{amenity1}, idsB)
}

func TestRemoveWithEmptySliceIssuesNothing(t *testing.T) {
	client := dbtest.Open(t)
	repo := properties.NewRepository(client.DB())
	ctx := context.Background()

	prop := seedProperty(t, client, "Nha", "HCM", "Q1", time.Now().UTC())
	require.NoError(t, repo.RemoveAmenities(ctx, prop.ID, nil))
	require.NoError(t, repo.AddSellers(ctx, prop.ID, nil))
}

func TestReplaceVideos(t *testing.T) {
	client := dbtest.Open(t)
	repo := properties.NewRepository(client.DB())
	ctx := context.Background()

	prop := seedProperty(t, client, "Nha", "HCM", "Q1", time.Now().UTC())

	require.NoError(t, repo.ReplaceVideos(ctx, prop.ID, []string{"https://v/1", "https://v/2"}))
	urls, err := repo.ListVideoURLs(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://v/1", "https://v/2"}, urls)

	require.NoError(t, repo.ReplaceVideos(ctx, prop.ID, []string{"https://v/3"}))
	urls, err = repo.ListVideoURLs(ctx, prop.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://v/3"}, urls)

	// empty set clears without inserting
	require.NoError(t, repo.ReplaceVideos(ctx, prop.ID, nil))
	urls, err = repo.ListVideoURLs(ctx, prop.ID)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestListFiltersAndCursor(t *testing.T) {
	client := dbtest.Open(t)
	repo := properties.NewRepository(client.DB())
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	seedProperty(t, client, "Can ho Vinhomes", "HCM", "Binh Thanh", base.Add(1*time.Minute))
	seedProperty(t, client, "Nha pho Thao Dien", "HCM", "Q2", base.Add(2*time.Minute))
	seedProperty(t, client, "Biet thu Da Nang", "Da Nang", "Son Tra", base.Add(3*time.Minute))

	t.Run("city filter", func(t *testing.T) {
		rows, _, err := repo.List(ctx, properties.ListInput{Filters: properties.ListFilters{City: "Da Nang"}})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Biet thu Da Nang", rows[0].Title)
	})

	t.Run("free text matches title case-insensitively", func(t *testing.T) {
		rows, _, err := repo.List(ctx, properties.ListInput{Filters: properties.ListFilters{Query: "vinhomes"}})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Can ho Vinhomes", rows[0].Title)
	})

	t.Run("newest first with cursor", func(t *testing.T) {
		first, cursor, err := repo.List(ctx, properties.ListInput{Pagination: pagination.Params{Limit: 2}})
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "Biet thu Da Nang", first[0].Title)
		assert.Equal(t, "Nha pho Thao Dien", first[1].Title)
		require.NotEmpty(t, cursor)

		second, next, err := repo.List(ctx, properties.ListInput{Pagination: pagination.Params{Limit: 2, Cursor: cursor}})
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "Can ho Vinhomes", second[0].Title)
		assert.Empty(t, next)
	})
}
