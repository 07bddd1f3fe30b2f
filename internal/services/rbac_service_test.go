package services

import (
	"context"
	"testing"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRBAC_RoleHierarchy(t *testing.T) {
	rbac := NewRBACService()

	tests := []struct {
		role    models.Role
		allowed []string
		denied  []string
	}{
		{
			role:    models.RoleCustomer,
			allowed: []string{PermTimeTrack, PermBookingsCreate},
			denied:  []string{PermTransfersCreate, PermBookingsReadAll, PermReportsRead},
		},
		{
			role:    models.RoleStaff,
			allowed: []string{PermTransfersCreate, PermTransfersComplete, PermTimeTrack},
			denied:  []string{PermTransfersApprove, PermTransfersCancel, PermStockAdjust},
		},
		{
			role:    models.RoleManager,
			allowed: []string{PermTransfersApprove, PermStockAdjust, PermReportsRead, PermBookingsCancelAny, PermAuditRead},
			denied:  []string{PermSettingsWrite, PermUsersManage, PermJobsRun},
		},
		{
			role:    models.RoleAdmin,
			allowed: []string{PermSettingsWrite, PermUsersManage, PermJobsRun, PermTransfersApprove, PermTimeTrack},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			for _, p := range tt.allowed {
				assert.True(t, rbac.HasPermission(tt.role, p), p)
			}
			for _, p := range tt.denied {
				assert.False(t, rbac.HasPermission(tt.role, p), p)
			}
		})
	}

	assert.False(t, rbac.HasPermission("guest", PermTimeTrack))
}

func TestRBAC_PermissionsSorted(t *testing.T) {
	perms := NewRBACService().Permissions(models.RoleCustomer)
	assert.Equal(t, []string{PermBookingsCreate, PermTimeTrack}, perms)
	assert.Empty(t, NewRBACService().Permissions("guest"))
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	id := uuid.New()
	actor, err := ActorFromContext(common.WithActor(context.Background(), id, "staff"))
	require.NoError(t, err)
	assert.Equal(t, id, actor.ID)
	assert.Equal(t, models.RoleStaff, actor.Role)
}
