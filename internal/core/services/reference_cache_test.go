package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lorrc/ticket-metrics-backend/internal/core/domain"
	"github.com/lorrc/ticket-metrics-backend/internal/core/mocks"
	"github.com/lorrc/ticket-metrics-backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceCache(t *testing.T) {
	ctx := context.Background()

	t.Run("loads once and serves the snapshot", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListUnits", ctx).Return([]domain.OrgUnit{{ID: 1, Name: "Ops"}}, nil).Once()
		mockRepo.On("ListGroupingMembers", ctx).Return([]domain.GroupingMember{}, nil).Once()
		mockRepo.On("ListGrants", ctx).Return([]domain.AccessGrant{}, nil).Once()
		mockRepo.On("ListUsernames", ctx).Return([]string{"alice"}, nil).Once()

		cache := services.NewReferenceCache(mockRepo, testLogger())

		for i := 0; i < 3; i++ {
			units, err := cache.ListUnits(ctx)
			require.NoError(t, err)
			assert.Equal(t, []domain.OrgUnit{{ID: 1, Name: "Ops"}}, units)

			users, err := cache.ListUsernames(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice"}, users)
		}

		mockRepo.AssertExpectations(t)
	})

	t.Run("load failure is sticky", func(t *testing.T) {
		mockRepo := mocks.NewMockReferenceDataRepository()
		mockRepo.On("ListUnits", ctx).Return(nil, errors.New("backing store unreachable")).Once()

		cache := services.NewReferenceCache(mockRepo, testLogger())

		_, err := cache.ListUnits(ctx)
		assert.Error(t, err)

		// Second read reports the same failure without re-querying.
		_, err = cache.ListGrants(ctx)
		assert.Error(t, err)
		mockRepo.AssertExpectations(t)
	})
}
