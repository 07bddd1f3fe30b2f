package services

import (
	"context"
	"fmt"
	"strings"

	"coworkops/internal/common"
	"coworkops/internal/models"
	"coworkops/internal/repositories"

	"github.com/google/uuid"
)

type CreateLocationRequest struct {
	Name    string              `json:"name"`
	Kind    models.LocationKind `json:"kind"`
	Address *string             `json:"address,omitempty"`
}

type CreateRoomRequest struct {
	Name       string    `json:"name"`
	LocationID uuid.UUID `json:"locationId"`
	Capacity   int       `json:"capacity"`
}

// LocationService manages store rooms, branches and the meeting rooms inside
// branches.
type LocationService interface {
	CreateLocation(ctx context.Context, req *CreateLocationRequest) (*models.Location, error)
	ListLocations(ctx context.Context, kind *models.LocationKind) ([]*models.Location, error)
	CreateRoom(ctx context.Context, req *CreateRoomRequest) (*models.Room, error)
	ListRooms(ctx context.Context, locationID *uuid.UUID) ([]*models.Room, error)
}

type locationService struct {
	locationRepo repositories.LocationRepository
	roomRepo     repositories.RoomRepository
}

func NewLocationService(locationRepo repositories.LocationRepository, roomRepo repositories.RoomRepository) LocationService {
	return &locationService{locationRepo: locationRepo, roomRepo: roomRepo}
}

func (s *locationService) CreateLocation(ctx context.Context, req *CreateLocationRequest) (*models.Location, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if req.Kind != models.LocationStoreRoom && req.Kind != models.LocationBranch {
		return nil, fmt.Errorf("%w: kind must be store_room or branch", common.ErrValidation)
	}
	if err := common.ValidateOptionalString(req.Address, "address", 500); err != nil {
		return nil, err
	}

	location := &models.Location{
		Name:    strings.TrimSpace(req.Name),
		Kind:    req.Kind,
		Address: req.Address,
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) ListLocations(ctx context.Context, kind *models.LocationKind) ([]*models.Location, error) {
	return s.locationRepo.List(ctx, kind)
}

func (s *locationService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*models.Room, error) {
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidatePositiveInteger(req.Capacity, "capacity", 500); err != nil {
		return nil, err
	}
	location, err := s.locationRepo.GetByID(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}
	if location.Kind != models.LocationBranch {
		return nil, fmt.Errorf("%w: rooms can only be added to a branch", common.ErrValidation)
	}

	room := &models.Room{
		Name:       strings.TrimSpace(req.Name),
		LocationID: location.ID,
		Capacity:   req.Capacity,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *locationService) ListRooms(ctx context.Context, locationID *uuid.UUID) ([]*models.Room, error) {
	return s.roomRepo.List(ctx, locationID)
}
