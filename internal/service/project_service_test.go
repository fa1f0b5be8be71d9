package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/models"
)

func TestProjectCreate(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "  Apollo  "})
	require.NoError(t, err)

	assert.Equal(t, "Apollo", project.Title)
	assert.Equal(t, owner.ID, project.OwnerID)
	assert.Equal(t, models.ProjectStatusPlanning, project.Status)
	assert.Equal(t, models.PriorityMedium, project.Priority)
	assert.Empty(t, project.Members)
	assert.Zero(t, project.Progress)
}

func TestProjectCreate_Invalid(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	ctx := asUser(owner)

	start := time.Now()
	end := start.Add(-time.Hour)

	tests := []struct {
		name string
		in   CreateProjectInput
	}{
		{"empty title", CreateProjectInput{Title: "   "}},
		{"bad status", CreateProjectInput{Title: "P", Status: "done"}},
		{"bad priority", CreateProjectInput{Title: "P", Priority: "asap"}},
		{"end before start", CreateProjectInput{Title: "P", StartDate: &start, EndDate: &end}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.project.Create(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestProjectGet_MembersOnly(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	stranger := f.seedUser("Stranger", "stranger@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)

	_, err = f.project.Get(asUser(owner), project.ID)
	require.NoError(t, err)

	_, err = f.project.Get(asUser(stranger), project.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
}

func TestProjectList(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	member := f.seedUser("Member", "member@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)
	_, err = f.project.AddMember(asUser(owner), project.ID, member.ID, "member")
	require.NoError(t, err)
	_, err = f.project.Create(asUser(owner), CreateProjectInput{Title: "Borealis"})
	require.NoError(t, err)

	ownerProjects, err := f.project.List(asUser(owner))
	require.NoError(t, err)
	assert.Len(t, ownerProjects, 2)

	memberProjects, err := f.project.List(asUser(member))
	require.NoError(t, err)
	require.Len(t, memberProjects, 1)
	assert.Equal(t, "Apollo", memberProjects[0].Title)
}

func TestProjectUpdate_Permissions(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	viewer := f.seedUser("Viewer", "viewer@example.com")
	admin := f.seedUser("Admin", "admin@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)
	_, err = f.project.AddMember(asUser(owner), project.ID, viewer.ID, "viewer")
	require.NoError(t, err)
	_, err = f.project.AddMember(asUser(owner), project.ID, admin.ID, "admin")
	require.NoError(t, err)

	title := "Apollo 11"
	_, err = f.project.Update(asUser(viewer), project.ID, UpdateProjectInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	updated, err := f.project.Update(asUser(admin), project.ID, UpdateProjectInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Apollo 11", updated.Title)
}

func TestProjectDelete_CascadesAndOwnerOnly(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	admin := f.seedUser("Admin", "admin@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)
	_, err = f.project.AddMember(asUser(owner), project.ID, admin.ID, "admin")
	require.NoError(t, err)

	task, err := f.task.Create(asUser(owner), CreateTaskInput{
		Title: "Design", ProjectID: project.ID.Hex(),
	})
	require.NoError(t, err)

	err = f.project.Delete(asUser(admin), project.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))

	require.NoError(t, f.project.Delete(asUser(owner), project.ID))

	_, err = f.tasks.GetByID(context.Background(), task.ID)
	require.Error(t, err)
	_, err = f.project.Get(asUser(owner), project.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAddMemberService(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	member := f.seedUser("Member", "member@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)

	updated, err := f.project.AddMember(asUser(owner), project.ID, member.ID, "member")
	require.NoError(t, err)
	require.Len(t, updated.Members, 1)
	assert.Equal(t, member.ID, updated.Members[0].UserID)

	// Duplicate add conflicts.
	_, err = f.project.AddMember(asUser(owner), project.ID, member.ID, "viewer")
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// Unknown user is not found.
	_, err = f.project.AddMember(asUser(owner), project.ID, primitive.NewObjectID(), "member")
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestAddMember_DeactivatedUser(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	member := f.seedUser("Member", "member@example.com")
	member.IsActive = false
	require.NoError(t, f.users.Update(context.Background(), member))

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)

	_, err = f.project.AddMember(asUser(owner), project.ID, member.ID, "member")
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestAddMember_RequiresManagePermission(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	member := f.seedUser("Member", "member@example.com")
	other := f.seedUser("Other", "other@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)
	_, err = f.project.AddMember(asUser(owner), project.ID, member.ID, "member")
	require.NoError(t, err)

	_, err = f.project.AddMember(asUser(member), project.ID, other.ID, "member")
	require.Error(t, err)
	assert.Equal(t, domain.KindAuthorization, domain.KindOf(err))
}

func TestRemoveMemberService(t *testing.T) {
	f := newFixture()
	owner := f.seedUser("Owner", "owner@example.com")
	member := f.seedUser("Member", "member@example.com")

	project, err := f.project.Create(asUser(owner), CreateProjectInput{Title: "Apollo"})
	require.NoError(t, err)
	_, err = f.project.AddMember(asUser(owner), project.ID, member.ID, "member")
	require.NoError(t, err)

	// Self-removal is always allowed.
	updated, err := f.project.RemoveMember(asUser(member), project.ID, member.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Members)

	// The owner cannot be removed.
	_, err = f.project.RemoveMember(asUser(owner), project.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}
