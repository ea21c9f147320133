// Package policy holds every role-based decision. Read and write paths ask
// here instead of branching on roles themselves.
package policy

import "github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"

// CanViewAll reports whether u sees content in every moderation state.
func CanViewAll(u *models.User) bool {
	return u.IsAdmin()
}

// CanView reports whether item is visible to u. Anonymous viewers count as
// regular users.
func CanView(u *models.User, item models.ContentItem) bool {
	return CanViewAll(u) || item.Status == models.StatusApproved
}

// VisibleItems filters items down to what u may see. It never mutates items.
func VisibleItems(items []models.ContentItem, u *models.User) []models.ContentItem {
	if CanViewAll(u) {
		return items
	}
	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		if CanView(u, item) {
			out = append(out, item)
		}
	}
	return out
}

func CanModerate(u *models.User) bool {
	return u.IsAdmin()
}

func CanUpload(u *models.User) bool {
	return u != nil && (u.Role == models.RoleCreator || u.Role == models.RoleAdmin)
}

// CanManageUsers covers suspension and the user listing.
func CanManageUsers(u *models.User) bool {
	return u.IsAdmin()
}
