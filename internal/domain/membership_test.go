package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/models"
)

func TestAddMember(t *testing.T) {
	owner := primitive.NewObjectID()
	newcomer := primitive.NewObjectID()
	p := testProject(owner)

	require.NoError(t, AddMember(p, newcomer, RoleMember, time.Now()))
	require.Len(t, p.Members, 1)
	assert.Equal(t, newcomer, p.Members[0].UserID)
	assert.Equal(t, "member", p.Members[0].Role)
}

func TestAddMember_DuplicateFails(t *testing.T) {
	owner := primitive.NewObjectID()
	user := primitive.NewObjectID()
	p := testProject(owner)

	require.NoError(t, AddMember(p, user, RoleViewer, time.Now()))

	// A repeated add must fail, not silently succeed.
	err := AddMember(p, user, RoleViewer, time.Now())
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Len(t, p.Members, 1)
}

func TestAddMember_OwnerFails(t *testing.T) {
	owner := primitive.NewObjectID()
	p := testProject(owner)

	err := AddMember(p, owner, RoleAdmin, time.Now())
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Empty(t, p.Members)
}

func TestAddMember_InvalidRole(t *testing.T) {
	p := testProject(primitive.NewObjectID())

	for _, role := range []Role{RoleOwner, RoleNone, Role("boss")} {
		err := AddMember(p, primitive.NewObjectID(), role, time.Now())
		require.Error(t, err, "role %q", role)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestRemoveMember(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	viewer := primitive.NewObjectID()

	newProject := func() *models.Project {
		return testProject(owner,
			models.Member{UserID: admin, Role: "admin", JoinedAt: time.Now()},
			models.Member{UserID: member, Role: "member", JoinedAt: time.Now()},
			models.Member{UserID: viewer, Role: "viewer", JoinedAt: time.Now()},
		)
	}

	tests := []struct {
		name      string
		requester primitive.ObjectID
		target    primitive.ObjectID
		wantKind  Kind
	}{
		{"owner removes member", owner, member, KindUnknown},
		{"admin removes member", admin, member, KindUnknown},
		{"member removes self", member, member, KindUnknown},
		{"viewer removes self", viewer, viewer, KindUnknown},
		{"member removes other", member, viewer, KindAuthorization},
		{"viewer removes other", viewer, member, KindAuthorization},
		{"owner cannot be removed", owner, owner, KindConflict},
		{"admin cannot remove owner", admin, owner, KindConflict},
		{"target not a member", owner, primitive.NewObjectID(), KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newProject()
			before := len(p.Members)

			err := RemoveMember(p, tt.requester, tt.target)
			if tt.wantKind != KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, KindOf(err))
				assert.Len(t, p.Members, before)
				return
			}

			require.NoError(t, err)
			assert.Len(t, p.Members, before-1)
			for _, m := range p.Members {
				assert.NotEqual(t, tt.target, m.UserID)
			}
		})
	}
}
