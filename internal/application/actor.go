package application

import "github.com/ortholink/ortholink-api/internal/domain/entity"

// Actor identifies the caller for authorization decisions. The zero value is
// an anonymous viewer.
type Actor struct {
	ID   string
	Role entity.Role
}

func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// CanMutate reports whether the actor may modify content owned by ownerID.
func (a Actor) CanMutate(ownerID string) bool {
	return a.IsAdmin() || (a.ID != "" && a.ID == ownerID)
}

// CanSee implements the visibility rule for publication-status content:
// published content is public, everything else is visible only to its owner
// and admins. A hidden item reads as missing, never as forbidden.
func (a Actor) CanSee(status entity.PublicationStatus, ownerID string) bool {
	if status == entity.StatusPublished {
		return true
	}
	return a.CanMutate(ownerID)
}
