package services

import (
	"context"
	"testing"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLocationService_CreateLocation(t *testing.T) {
	locations := &MockLocationRepository{}
	svc := NewLocationService(locations, &MockRoomRepository{})
	locations.On("Create", mock.Anything, mock.AnythingOfType("*models.Location")).Return(nil)

	loc, err := svc.CreateLocation(context.Background(), &CreateLocationRequest{Name: " Main store ", Kind: models.LocationStoreRoom})

	require.NoError(t, err)
	assert.Equal(t, "Main store", loc.Name)

	_, err = svc.CreateLocation(context.Background(), &CreateLocationRequest{Name: "Attic", Kind: "attic"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLocationService_RoomsOnlyInBranches(t *testing.T) {
	locations := &MockLocationRepository{}
	rooms := &MockRoomRepository{}
	svc := NewLocationService(locations, rooms)

	store := &models.Location{ID: uuid.New(), Kind: models.LocationStoreRoom}
	branch := &models.Location{ID: uuid.New(), Kind: models.LocationBranch}
	locations.On("GetByID", mock.Anything, store.ID).Return(store, nil)
	locations.On("GetByID", mock.Anything, branch.ID).Return(branch, nil)
	rooms.On("Create", mock.Anything, mock.AnythingOfType("*models.Room")).Return(nil).Once()

	_, err := svc.CreateRoom(context.Background(), &CreateRoomRequest{Name: "Focus pod", LocationID: store.ID, Capacity: 2})
	assert.ErrorIs(t, err, common.ErrValidation)

	room, err := svc.CreateRoom(context.Background(), &CreateRoomRequest{Name: "Focus pod", LocationID: branch.ID, Capacity: 2})
	require.NoError(t, err)
	assert.Equal(t, branch.ID, room.LocationID)

	_, err = svc.CreateRoom(context.Background(), &CreateRoomRequest{Name: "Hall", LocationID: branch.ID, Capacity: 0})
	assert.ErrorIs(t, err, common.ErrValidation)
	rooms.AssertExpectations(t)
}
