package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/models"
)

// Role is a user's standing on a project. The set is closed; authorization
// decisions go through the permission matrix below rather than ad hoc string
// comparisons.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
	RoleNone   Role = "none"
)

// Permission names a project-level capability.
type Permission int

const (
	PermEditProject Permission = iota
	PermDeleteProject
	PermManageMembers
	PermCreateTask
)

// permissionMatrix is the single source of truth for role capabilities.
var permissionMatrix = map[Role]map[Permission]bool{
	RoleOwner: {
		PermEditProject:   true,
		PermDeleteProject: true,
		PermManageMembers: true,
		PermCreateTask:    true,
	},
	RoleAdmin: {
		PermEditProject:   true,
		PermManageMembers: true,
		PermCreateTask:    true,
	},
	RoleMember: {
		PermCreateTask: true,
	},
	RoleViewer: {},
	RoleNone:   {},
}

// ParseRole converts an untrusted string into a member role. Owner is not
// assignable; it is derived from the project's owner reference.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember, RoleViewer:
		return Role(s), nil
	case RoleOwner:
		return RoleNone, Validationf("owner role cannot be assigned directly")
	default:
		return RoleNone, Validationf("unknown member role %q", s)
	}
}

// RoleOf resolves userID's role on the project. The owner reference wins even
// if the same user incorrectly appears in the members list.
func RoleOf(p *models.Project, userID primitive.ObjectID) Role {
	if p.OwnerID == userID {
		return RoleOwner
	}
	for _, m := range p.Members {
		if m.UserID == userID {
			switch Role(m.Role) {
			case RoleAdmin, RoleMember, RoleViewer:
				return Role(m.Role)
			default:
				return RoleNone
			}
		}
	}
	return RoleNone
}

// Has reports whether the role grants the permission.
func (r Role) Has(perm Permission) bool {
	return permissionMatrix[r][perm]
}

// CanEditProject reports whether userID may edit project fields.
func CanEditProject(p *models.Project, userID primitive.ObjectID) bool {
	return RoleOf(p, userID).Has(PermEditProject)
}

// CanDeleteProject reports whether userID may delete the project. Only the
// owner may.
func CanDeleteProject(p *models.Project, userID primitive.ObjectID) bool {
	return RoleOf(p, userID).Has(PermDeleteProject)
}

// CanManageMembers reports whether userID may add or remove other members.
func CanManageMembers(p *models.Project, userID primitive.ObjectID) bool {
	return RoleOf(p, userID).Has(PermManageMembers)
}

// CanCreateTask reports whether userID may create tasks on the project.
func CanCreateTask(p *models.Project, userID primitive.ObjectID) bool {
	return RoleOf(p, userID).Has(PermCreateTask)
}

// CanEditTask reports whether userID may mutate the task: its creator, its
// assignee, or a project owner/admin.
func CanEditTask(t *models.Task, p *models.Project, userID primitive.ObjectID) bool {
	if t.CreatorID == userID || t.AssigneeID == userID {
		return true
	}
	role := RoleOf(p, userID)
	return role == RoleOwner || role == RoleAdmin
}

// CanDeleteTask reports whether userID may hard-delete the task: its creator
// or a project owner/admin. The assignee alone may not.
func CanDeleteTask(t *models.Task, p *models.Project, userID primitive.ObjectID) bool {
	if t.CreatorID == userID {
		return true
	}
	role := RoleOf(p, userID)
	return role == RoleOwner || role == RoleAdmin
}
