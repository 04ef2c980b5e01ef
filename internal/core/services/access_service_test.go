package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/mocks"
	"github.com/lorrc/ticket-metrics-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAccessService_Resolve(t *testing.T) {
	ctx := context.Background()

	units := []domain.OrgUnit{
		{ID: 100, Name: "Network Operations"},
		{ID: 200, Name: "Field Services"},
		{ID: 300, Name: "Finance"},
	}
	members := []domain.GroupingMember{
		{GroupingID: 1, UnitID: 100},
		{GroupingID: 1, UnitID: 200},
		{GroupingID: 2, UnitID: 300},
	}

	t.Run("grouping grant expands to member units", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListGrants", ctx).Return([]domain.AccessGrant{
			{User: "alice", Level: domain.GrantGrouping, TargetID: 1},
		}, nil)
		mockRepo.On("ListGroupingMembers", ctx).Return(members, nil)
		mockRepo.On("ListUnits", ctx).Return(units, nil)

		svc := services.NewAccessService(mockRepo, testLogger())

		resolved, err := svc.Resolve(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, 2, resolved.Units.Len())
		assert.True(t, resolved.Units.Contains(100))
		assert.True(t, resolved.Units.Contains(200))
		assert.False(t, resolved.Units.Contains(300))
	})

	t.Run("mixed grants union without double counting", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		// Unit 100 is reachable both through grouping 1 and a direct grant.
		mockRepo.On("ListGrants", ctx).Return([]domain.AccessGrant{
			{User: "bob", Level: domain.GrantGrouping, TargetID: 1},
			{User: "bob", Level: domain.GrantUnit, TargetID: 100},
			{User: "bob", Level: domain.GrantUnit, TargetID: 300},
		}, nil)
		mockRepo.On("ListGroupingMembers", ctx).Return(members, nil)
		mockRepo.On("ListUnits", ctx).Return(units, nil)

		svc := services.NewAccessService(mockRepo, testLogger())

		resolved, err := svc.Resolve(ctx, "bob")

		require.NoError(t, err)
		assert.Equal(t, 3, resolved.Units.Len())
		require.Len(t, resolved.UnitList, 3)
		assert.Equal(t, []domain.OrgUnit{
			{ID: 100, Name: "Network Operations"},
			{ID: 200, Name: "Field Services"},
			{ID: 300, Name: "Finance"},
		}, resolved.UnitList)
	})

	t.Run("user with no grants resolves to empty set", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListGrants", ctx).Return([]domain.AccessGrant{
			{User: "alice", Level: domain.GrantUnit, TargetID: 100},
		}, nil)

		svc := services.NewAccessService(mockRepo, testLogger())

		resolved, err := svc.Resolve(ctx, "nobody")

		require.NoError(t, err)
		assert.Equal(t, 0, resolved.Units.Len())
		assert.Empty(t, resolved.UnitList)
		mockRepo.AssertNotCalled(t, "ListGroupingMembers")
	})

	t.Run("unrecognized grant level is ignored", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListGrants", ctx).Return([]domain.AccessGrant{
			{User: "carol", Level: domain.GrantLevel("REGION"), TargetID: 9},
			{User: "carol", Level: domain.GrantUnit, TargetID: 200},
		}, nil)
		mockRepo.On("ListUnits", ctx).Return(units, nil)

		svc := services.NewAccessService(mockRepo, testLogger())

		resolved, err := svc.Resolve(ctx, "carol")

		require.NoError(t, err)
		assert.Equal(t, 1, resolved.Units.Len())
		assert.True(t, resolved.Units.Contains(200))
	})

	t.Run("unit missing from reference table keeps placeholder name", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListGrants", ctx).Return([]domain.AccessGrant{
			{User: "dave", Level: domain.GrantUnit, TargetID: 999},
		}, nil)
		mockRepo.On("ListUnits", ctx).Return(units, nil)

		svc := services.NewAccessService(mockRepo, testLogger())

		resolved, err := svc.Resolve(ctx, "dave")

		require.NoError(t, err)
		require.Len(t, resolved.UnitList, 1)
		assert.Equal(t, domain.OrgUnit{ID: 999, Name: "Unit 999"}, resolved.UnitList[0])
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListGrants", ctx).Return(nil, errors.New("disk gone"))

		svc := services.NewAccessService(mockRepo, testLogger())

		resolved, err := svc.Resolve(ctx, "alice")

		assert.Nil(t, resolved)
		assert.Error(t, err)
	})
}

func TestAccessService_ListUsers(t *testing.T) {
	ctx := context.Background()

	mockRepo := mocks.NewMockReferenceDataRepository()
	mockRepo.On("ListUsernames", ctx).Return([]string{"alice", "bob"}, nil)

	svc := services.NewAccessService(mockRepo, testLogger())

	users, err := svc.ListUsers(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, users)
}
