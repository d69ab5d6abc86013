package publish_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quyetngv/bds-backend/internal/groups"
	"github.com/quyetngv/bds-backend/internal/properties"
	"github.com/quyetngv/bds-backend/internal/publish"
	"github.com/quyetngv/bds-backend/pkg/config"
	"github.com/quyetngv/bds-backend/pkg/db"
	"github.com/quyetngv/bds-backend/pkg/db/dbtest"
	"github.com/quyetngv/bds-backend/pkg/db/models"
	"github.com/quyetngv/bds-backend/pkg/enums"
	pkgerrors "github.com/quyetngv/bds-backend/pkg/errors"
	"github.com/quyetngv/bds-backend/pkg/outbox"
	"github.com/quyetngv/bds-backend/pkg/pagination"
)

type stubPoster struct {
	token    bool
	calls    []string
	failWith map[string]error
}

func (s *stubPoster) HasToken() bool { return s.token }

func (s *stubPoster) PostToGroupFeed(_ context.Context, groupID, _ string) (string, error) {
	s.calls = append(s.calls, groupID)
	if err, ok := s.failWith[groupID]; ok {
		return "", err
	}
	return fmt.Sprintf("%s_post", groupID), nil
}

type testEnv struct {
	client   *db.Client
	poster   *stubPoster
	svc      publish.Service
	props    properties.Service
	groupSvc groups.Service
}

func newTestEnv(t *testing.T, mode string, poster *stubPoster) *testEnv {
	t.Helper()
	client := dbtest.Open(t)

	propSvc, err := properties.NewService(properties.NewRepository(client.DB()), client, nil)
	require.NoError(t, err)
	groupSvc, err := groups.NewService(groups.NewRepository(client.DB()))
	require.NoError(t, err)

	svc, err := publish.NewService(
		client,
		publish.NewRepository(client.DB()),
		publish.NewDispatcher(poster, nil, nil),
		outbox.NewService(outbox.NewRepository(client.DB()), nil),
		propSvc,
		groupSvc,
		config.PublishConfig{Mode: mode},
		nil,
	)
	require.NoError(t, err)

	return &testEnv{client: client, poster: poster, svc: svc, props: propSvc, groupSvc: groupSvc}
}

func (e *testEnv) seedProperty(t *testing.T) *properties.PropertyDTO {
	t.Helper()
	dto, err := e.props.Save(context.Background(), properties.SaveInput{
		Title:       "Nha pho Quan 7",
		ListingType: enums.ListingTypeSale,
		Status:      enums.PropertyStatusAvailable,
		Price:       decimal.NewFromInt(5_600_000_000),
		Currency:    "VND",
		Area:        80,
		Address:     "12 Nguyen Thi Thap",
		District:    "Quan 7",
		City:        "TP HCM",
	})
	require.NoError(t, err)
	return dto
}

func strPtr(value string) *string { return &value }

func (e *testEnv) seedTargetGroup(t *testing.T, name, externalID string) *models.FbGroup {
	t.Helper()
	group, err := e.groupSvc.Create(context.Background(), groups.SaveGroupInput{
		Name:     name,
		GroupID:  strPtr(externalID),
		Kind:     enums.GroupKindTarget,
		IsActive: true,
	})
	require.NoError(t, err)
	return group
}

func (e *testEnv) historyRows(t *testing.T) []models.FbPublishedPost {
	t.Helper()
	var rows []models.FbPublishedPost
	require.NoError(t, e.client.DB().Order("group_id ASC").Find(&rows).Error)
	return rows
}

func TestPublishPropertyDirectRecordsTerminalRows(t *testing.T) {
	poster := &stubPoster{
		token:    true,
		failWith: map[string]error{"g2": errors.New("(#200) Insufficient permission")},
	}
	env := newTestEnv(t, config.PublishModeDirect, poster)

	property := env.seedProperty(t)
	env.seedTargetGroup(t, "Alpha", "g1")
	env.seedTargetGroup(t, "Beta", "g2")

	outcome, err := env.svc.PublishProperty(context.Background(), publish.PublishInput{
		PropertyID: property.ID,
		Message:    "Ban gap nha pho",
	})
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, config.PublishModeDirect, outcome.Mode)
	assert.False(t, outcome.Queued)
	require.Len(t, outcome.Results, 2)
	assert.True(t, outcome.Results[0].OK)
	assert.False(t, outcome.Results[1].OK)

	rows := env.historyRows(t)
	require.Len(t, rows, 2)

	assert.Equal(t, "g1", rows[0].GroupID)
	assert.Equal(t, "Alpha", rows[0].GroupName)
	assert.Equal(t, enums.PublishStatusSuccess, rows[0].Status)
	require.NotNil(t, rows[0].ResultPostID)
	assert.Equal(t, "g1_post", *rows[0].ResultPostID)
	assert.Nil(t, rows[0].ErrorMessage)
	assert.Equal(t, "Ban gap nha pho", rows[0].Message)
	assert.Equal(t, property.ID, rows[0].PropertyID)

	assert.Equal(t, enums.PublishStatusFailed, rows[1].Status)
	require.NotNil(t, rows[1].ErrorMessage)
	assert.Equal(t, "(#200) Insufficient permission", *rows[1].ErrorMessage)
	assert.Nil(t, rows[1].ResultPostID)
}

func TestPublishPropertyComposesDefaultMessage(t *testing.T) {
	poster := &stubPoster{token: true}
	env := newTestEnv(t, config.PublishModeDirect, poster)

	property := env.seedProperty(t)
	env.seedTargetGroup(t, "Alpha", "g1")

	outcome, err := env.svc.PublishProperty(context.Background(), publish.PublishInput{PropertyID: property.ID})
	require.NoError(t, err)

	assert.Contains(t, outcome.Message, "Nha pho Quan 7")
	assert.Contains(t, outcome.Message, "5600000000 VND")
	assert.Contains(t, outcome.Message, "80 m2")
	assert.Contains(t, outcome.Message, "12 Nguyen Thi Thap, Quan 7, TP HCM")

	rows := env.historyRows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, outcome.Message, rows[0].Message)
}

func TestPublishPropertySkipsIneligibleGroups(t *testing.T) {
	poster := &stubPoster{token: true}
	env := newTestEnv(t, config.PublishModeDirect, poster)

	property := env.seedProperty(t)
	env.seedTargetGroup(t, "Active target", "g1")

	_, err := env.groupSvc.Create(context.Background(), groups.SaveGroupInput{
		Name: "Scrape source", GroupID: strPtr("g2"), Kind: enums.GroupKindSource, IsActive: true,
	})
	require.NoError(t, err)
	_, err = env.groupSvc.Create(context.Background(), groups.SaveGroupInput{
		Name: "Paused", GroupID: strPtr("g3"), Kind: enums.GroupKindTarget, IsActive: false,
	})
	require.NoError(t, err)

	outcome, err := env.svc.PublishProperty(context.Background(), publish.PublishInput{PropertyID: property.ID})
	require.NoError(t, err)

	require.Len(t, outcome.Results, 1)
	assert.Equal(t, "g1", outcome.Results[0].GroupID)
	assert.Equal(t, []string{"g1"}, poster.calls)
}

func TestPublishPropertyNoEligibleTargets(t *testing.T) {
	env := newTestEnv(t, config.PublishModeDirect, &stubPoster{token: true})
	property := env.seedProperty(t)

	_, err := env.svc.PublishProperty(context.Background(), publish.PublishInput{PropertyID: property.ID})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Empty(t, env.poster.calls)
}

func TestPublishPropertyUnknownProperty(t *testing.T) {
	env := newTestEnv(t, config.PublishModeDirect, &stubPoster{token: true})
	env.seedTargetGroup(t, "Alpha", "g1")

	_, err := env.svc.PublishProperty(context.Background(), publish.PublishInput{PropertyID: uuid.New()})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestPublishPropertyRelayQueuesPendingRows(t *testing.T) {
	poster := &stubPoster{token: true}
	env := newTestEnv(t, config.PublishModeRelay, poster)

	property := env.seedProperty(t)
	env.seedTargetGroup(t, "Alpha", "g1")
	env.seedTargetGroup(t, "Beta", "g2")

	outcome, err := env.svc.PublishProperty(context.Background(), publish.PublishInput{
		PropertyID: property.ID,
		Message:    "Relay me",
	})
	require.NoError(t, err)

	assert.Equal(t, config.PublishModeRelay, outcome.Mode)
	assert.True(t, outcome.Queued)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, poster.calls, "relay mode never posts in-process")

	rows := env.historyRows(t)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, enums.PublishStatusPending, row.Status)
		assert.Nil(t, row.ResultPostID)
		assert.Nil(t, row.ErrorMessage)
		assert.Equal(t, "Relay me", row.Message)
	}

	var events []models.OutboxEvent
	require.NoError(t, env.client.DB().Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, enums.EventPublishRequested, events[0].EventType)
	assert.Equal(t, property.ID, events[0].AggregateID)
	assert.Nil(t, events[0].PublishedAt)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(events[0].Payload, &envelope))
	var data outbox.PublishRequestedData
	require.NoError(t, json.Unmarshal(envelope.Data, &data))

	assert.Equal(t, property.ID, data.PropertyID)
	assert.Equal(t, "Relay me", data.Message)
	require.Len(t, data.Targets, 2)

	recordIDs := map[uuid.UUID]bool{rows[0].ID: true, rows[1].ID: true}
	for _, target := range data.Targets {
		assert.True(t, recordIDs[target.RecordID], "event target must reference a reserved audit row")
	}
}

func TestFanOutMissingToken(t *testing.T) {
	env := newTestEnv(t, config.PublishModeDirect, &stubPoster{token: false})

	results, missingToken := env.svc.FanOut(context.Background(), "hello", []string{"111", "222"})
	assert.True(t, missingToken)
	require.Len(t, results, 2)
	for _, result := range results {
		assert.False(t, result.OK)
		require.NotNil(t, result.Error)
		assert.Equal(t, publish.ErrMissingToken, *result.Error)
	}
	assert.Empty(t, env.poster.calls)

	rows := env.historyRows(t)
	assert.Empty(t, rows, "raw fan-out writes no audit rows")
}

func TestFanOutPostsWithoutAudit(t *testing.T) {
	poster := &stubPoster{token: true}
	env := newTestEnv(t, config.PublishModeDirect, poster)

	results, missingToken := env.svc.FanOut(context.Background(), "hello", []string{"111"})
	assert.False(t, missingToken)
	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Empty(t, env.historyRows(t))
}

func TestHistoryFiltersAndPagination(t *testing.T) {
	env := newTestEnv(t, config.PublishModeDirect, &stubPoster{token: true})
	repo := publish.NewRepository(env.client.DB())
	ctx := context.Background()

	propertyID := uuid.New()
	otherProperty := uuid.New()
	postID := "888_777"
	errMsg := "(#368) Temporarily blocked"

	seed := []models.FbPublishedPost{
		{PropertyID: propertyID, GroupID: "g1", GroupName: "Alpha", Message: "ban nha", Status: enums.PublishStatusSuccess, ResultPostID: &postID},
		{PropertyID: propertyID, GroupID: "g2", GroupName: "Beta", Message: "ban nha", Status: enums.PublishStatusFailed, ErrorMessage: &errMsg},
		{PropertyID: otherProperty, GroupID: "g3", GroupName: "Gamma", Message: "cho thue", Status: enums.PublishStatusPending},
	}
	for i := range seed {
		require.NoError(t, repo.InsertAttempt(ctx, &seed[i]))
	}

	t.Run("status filter", func(t *testing.T) {
		result, err := env.svc.History(ctx, publish.HistoryFilters{Status: "failed"}, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "g2", result.Records[0].GroupID)
	})

	t.Run("all statuses", func(t *testing.T) {
		result, err := env.svc.History(ctx, publish.HistoryFilters{Status: "all"}, pagination.Params{})
		require.NoError(t, err)
		assert.Len(t, result.Records, 3)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		_, err := env.svc.History(ctx, publish.HistoryFilters{Status: "archived"}, pagination.Params{})
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	})

	t.Run("free text matches group name", func(t *testing.T) {
		result, err := env.svc.History(ctx, publish.HistoryFilters{Query: "beta"}, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "g2", result.Records[0].GroupID)
	})

	t.Run("free text matches post id", func(t *testing.T) {
		result, err := env.svc.History(ctx, publish.HistoryFilters{Query: "888_777"}, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "g1", result.Records[0].GroupID)
	})

	t.Run("property scope", func(t *testing.T) {
		result, err := env.svc.History(ctx, publish.HistoryFilters{PropertyID: &otherProperty}, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, result.Records, 1)
		assert.Equal(t, "g3", result.Records[0].GroupID)
	})

	t.Run("cursor walk", func(t *testing.T) {
		first, err := env.svc.History(ctx, publish.HistoryFilters{}, pagination.Params{Limit: 2})
		require.NoError(t, err)
		require.Len(t, first.Records, 2)
		require.NotEmpty(t, first.NextCursor)

		second, err := env.svc.History(ctx, publish.HistoryFilters{}, pagination.Params{Limit: 2, Cursor: first.NextCursor})
		require.NoError(t, err)
		require.Len(t, second.Records, 1)

		seen := map[uuid.UUID]bool{}
		for _, row := range append(first.Records, second.Records...) {
			assert.False(t, seen[row.ID], "no row may repeat across pages")
			seen[row.ID] = true
		}
		assert.Empty(t, second.NextCursor)
	})
}

func TestComposeMessageSkipsBlankParts(t *testing.T) {
	message := publish.ComposeMessage(&properties.PropertyDTO{
		Title:    "Dat nen Cu Chi",
		Price:    decimal.NewFromInt(900_000_000),
		Currency: "VND",
	})
	assert.Contains(t, message, "Dat nen Cu Chi")
	assert.Contains(t, message, "Giá: 900000000 VND")
	assert.NotContains(t, message, "Diện tích")
	assert.NotContains(t, message, "Địa chỉ")
}
