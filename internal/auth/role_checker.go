package auth

type RoleChecker interface {
	CanManageNavigation(role string) bool
	CanManageBadges(role string) bool
	CanManageContent(role string) bool
	CanPublishContent(role string) bool
	IsAdmin(role string) bool
	HasAnyRole(role string, required []string) bool
}

type DefaultRoleChecker struct{}

func NewRoleChecker() RoleChecker {
	return &DefaultRoleChecker{}
}

func (c *DefaultRoleChecker) HasAnyRole(role string, required []string) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// CanManageNavigation gates the admin navigation CRUD endpoints.
func (c *DefaultRoleChecker) CanManageNavigation(role string) bool {
	return c.HasAnyRole(role, []string{RoleAdmin})
}

// CanManageBadges gates badge set/clear; editors maintain their own section
// counters.
func (c *DefaultRoleChecker) CanManageBadges(role string) bool {
	return c.HasAnyRole(role, []string{RoleAdmin, RoleEditor})
}

func (c *DefaultRoleChecker) CanManageContent(role string) bool {
	return c.HasAnyRole(role, []string{RoleAdmin, RoleEditor})
}

// CanPublishContent gates the publish/reject moderation transitions.
func (c *DefaultRoleChecker) CanPublishContent(role string) bool {
	return c.HasAnyRole(role, []string{RoleAdmin})
}

func (c *DefaultRoleChecker) IsAdmin(role string) bool {
	return role == RoleAdmin
}
