package services

import (
	"sort"

	"coworkops/internal/models"
)

// Permission names checked by handlers and services.
const (
	PermItemsWrite        = "items:write"
	PermLocationsWrite    = "locations:write"
	PermStockAdjust       = "stock:adjust"
	PermTransfersCreate   = "transfers:create"
	PermTransfersRead     = "transfers:read"
	PermTransfersApprove  = "transfers:approve"
	PermTransfersComplete = "transfers:complete"
	PermTransfersCancel   = "transfers:cancel"
	PermTimeTrack         = "time:track"
	PermTimeReadAll       = "time:read_all"
	PermRoomsWrite        = "rooms:write"
	PermBookingsCreate    = "bookings:create"
	PermBookingsCancelAny = "bookings:cancel_any"
	PermBookingsReadAll   = "bookings:read_all"
	PermReportsRead       = "reports:read"
	PermSettingsWrite     = "settings:write"
	PermUsersManage       = "users:manage"
	PermUsersRead         = "users:read"
	PermAuditRead         = "audit:read"
	PermJobsRun           = "jobs:run"
)

type RBACService interface {
	HasPermission(role models.Role, permission string) bool
	Permissions(role models.Role) []string
}

type rbacService struct {
	policy map[models.Role]map[string]bool
}

func grant(perms ...string) map[string]bool {
	set := make(map[string]bool, len(perms))
	for _, p := range perms {
		set[p] = true
	}
	return set
}

// NewRBACService returns the static role policy. Admins hold every permission.
func NewRBACService() RBACService {
	customer := []string{PermTimeTrack, PermBookingsCreate}
	staff := append([]string{PermTransfersCreate, PermTransfersRead, PermTransfersComplete, PermBookingsReadAll}, customer...)
	manager := append([]string{
		PermItemsWrite, PermLocationsWrite, PermStockAdjust, PermTransfersApprove, PermTransfersCancel,
		PermTimeReadAll, PermRoomsWrite, PermBookingsCancelAny, PermReportsRead, PermUsersRead, PermAuditRead,
	}, staff...)
	admin := append([]string{PermSettingsWrite, PermUsersManage, PermJobsRun}, manager...)

	return &rbacService{policy: map[models.Role]map[string]bool{
		models.RoleCustomer: grant(customer...),
		models.RoleStaff:    grant(staff...),
		models.RoleManager:  grant(manager...),
		models.RoleAdmin:    grant(admin...),
	}}
}

func (s *rbacService) HasPermission(role models.Role, permission string) bool {
	return s.policy[role][permission]
}

func (s *rbacService) Permissions(role models.Role) []string {
	perms := make([]string, 0, len(s.policy[role]))
	for p := range s.policy[role] {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}
