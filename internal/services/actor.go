package services

import (
	"context"
	"fmt"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
)

// Actor is the authenticated caller an operation runs on behalf of.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// ActorFromContext reads the identity the JWT middleware stored on ctx.
func ActorFromContext(ctx context.Context) (Actor, error) {
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok || userID == uuid.Nil {
		return Actor{}, fmt.Errorf("%w: missing user identity", common.ErrUnauthorized)
	}
	role, ok := common.GetRoleFromContext(ctx)
	if !ok || !models.Role(role).Valid() {
		return Actor{}, fmt.Errorf("%w: missing role", common.ErrUnauthorized)
	}
	return Actor{ID: userID, Role: models.Role(role)}, nil
}
