package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/models"
)

// AddMember appends userID to the project's member list. Adding a user who is
// already present, including the owner, is a conflict; a repeated add fails
// rather than silently succeeding.
func AddMember(p *models.Project, userID primitive.ObjectID, role Role, now time.Time) error {
	switch role {
	case RoleAdmin, RoleMember, RoleViewer:
	default:
		return Validationf("role %q cannot be granted to a member", role)
	}

	if p.OwnerID == userID {
		return Conflictf("user is the project owner")
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			return Conflictf("user is already a member")
		}
	}

	p.Members = append(p.Members, models.Member{
		UserID:   userID,
		Role:     string(role),
		JoinedAt: now,
	})
	return nil
}

// RemoveMember removes targetID from the project's member list on behalf of
// requesterID. Removing oneself is always permitted; the owner can never be
// removed; removing anyone else requires member management rights.
func RemoveMember(p *models.Project, requesterID, targetID primitive.ObjectID) error {
	if targetID == p.OwnerID {
		return Conflictf("project owner cannot be removed")
	}
	if requesterID != targetID && !CanManageMembers(p, requesterID) {
		return Authorizationf("not allowed to remove members")
	}

	for i, m := range p.Members {
		if m.UserID == targetID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return nil
		}
	}
	return NotFoundf("user is not a member of the project")
}
