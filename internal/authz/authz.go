package authz

import "github.com/mirskikh/inkwell/internal/models"

type Permission string

const (
	PermViewDashboard       Permission = "view-dashboard"
	PermManageUsers         Permission = "manage-users"
	PermManageSettings      Permission = "manage-settings"
	PermManagePosts         Permission = "manage-posts"
	PermEditAllPosts        Permission = "edit-all-posts"
	PermPublishPosts        Permission = "publish-posts"
	PermManageCategories    Permission = "manage-categories"
	PermManageImages        Permission = "manage-images"
	PermViewContactMessages Permission = "view-contact-messages"
)

var matrix = map[Permission][]models.Role{
	PermViewDashboard:       {models.RoleAdmin, models.RoleEditor, models.RoleWriter},
	PermManageUsers:         {models.RoleAdmin},
	PermManageSettings:      {models.RoleAdmin},
	PermManagePosts:         {models.RoleAdmin, models.RoleEditor, models.RoleWriter},
	PermEditAllPosts:        {models.RoleAdmin, models.RoleEditor},
	PermPublishPosts:        {models.RoleAdmin, models.RoleEditor},
	PermManageCategories:    {models.RoleAdmin, models.RoleEditor},
	PermManageImages:        {models.RoleAdmin, models.RoleEditor, models.RoleWriter},
	PermViewContactMessages: {models.RoleAdmin, models.RoleEditor},
}

// Can reports whether role holds the capability. ADMIN is an implicit
// superuser and passes every check.
func Can(role models.Role, perm Permission) bool {
	if role == models.RoleAdmin {
		return true
	}
	for _, r := range matrix[perm] {
		if r == role {
			return true
		}
	}
	return false
}

// RolesFor returns the matrix row, used to build route guards.
func RolesFor(perm Permission) []models.Role {
	return matrix[perm]
}

// CanTransitionStatus is the single home of the "WRITER cannot publish" rule.
// Writers may only park a post in DRAFT or request verification; moving to
// PUBLISHED requires the publish capability.
func CanTransitionStatus(role models.Role, from, to models.PostStatus) bool {
	if !to.Valid() {
		return false
	}
	if to == models.StatusPublished {
		return Can(role, PermPublishPosts)
	}
	return true
}

// CanAccessPost applies the ownership gate after role capability passed:
// writers only reach their own posts.
func CanAccessPost(u *models.User, p *models.Post) bool {
	if Can(u.Role, PermEditAllPosts) {
		return true
	}
	return p.AuthorID == u.ID
}
