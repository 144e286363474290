package service

import (
	"context"
	"testing"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClubService_CreateSetsCallerAsAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "  Chess  ", Category: ptr("Games")})
	require.NoError(t, err)
	assert.Equal(t, "Chess", club.Name)
	assert.Equal(t, carol.ID, club.AdminID)

	_, err = env.clubs.Create(ctx, carol, ClubInput{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := env.clubs.Get(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Admin.Username)
}

func TestClubService_UpdateForbiddenLeavesClubUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	alice := env.user(t, "alice", model.RoleStudent)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)

	_, err = env.clubs.Update(ctx, alice, club.ID, ClubPatch{Name: ptr("Hijacked")})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := env.clubs.Get(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chess", got.Name)

	_, err = env.clubs.Update(ctx, carol, 9999, ClubPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClubService_UpdateNotifiesMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	bob := env.user(t, "bob", model.RoleStudent)
	admin := env.user(t, "root", model.RoleAdmin)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)
	_, err = env.members.Create(ctx, bob, JoinInput{ClubID: club.ID})
	require.NoError(t, err)

	updated, err := env.clubs.Update(ctx, admin, club.ID, ClubPatch{Description: ptr("Weekly games")})
	require.NoError(t, err)
	assert.Equal(t, "Weekly games", updated.Description)

	got := env.notifier.to(bob.ID)
	require.Len(t, got, 1)
	assert.Equal(t, notification.KindClub, got[0].Type)
	assert.Equal(t, club.ID, got[0].Data["clubId"])

	// 空补丁不推送
	_, err = env.clubs.Update(ctx, carol, club.ID, ClubPatch{})
	require.NoError(t, err)
	assert.Len(t, env.notifier.to(bob.ID), 1)
}

func TestClubService_DeleteCascadeAndNotify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	bob := env.user(t, "bob", model.RoleStudent)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)
	_, err = env.members.Create(ctx, bob, JoinInput{ClubID: club.ID})
	require.NoError(t, err)
	ev, err := env.events.Create(ctx, carol, EventInput{Title: "Tournament", DateTime: futureTime(), Location: "Hall", ClubID: &club.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, env.clubs.Delete(ctx, bob, club.ID), ErrForbidden)
	assert.Equal(t, int64(1), env.count(t, &model.ClubMember{}, "club_id = ?", club.ID))

	require.NoError(t, env.clubs.Delete(ctx, carol, club.ID))
	_, err = env.clubs.Get(ctx, club.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), env.count(t, &model.ClubMember{}, "club_id = ?", club.ID))

	kept, err := env.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.ClubID)

	last := env.notifier.to(bob.ID)
	require.NotEmpty(t, last)
	assert.Equal(t, "Club deleted", last[len(last)-1].Message)

	assert.ErrorIs(t, env.clubs.Delete(ctx, carol, club.ID), ErrNotFound)
}

func TestClubService_ListByUserMissingUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.clubs.ListByUser(context.Background(), 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClubMemberService_JoinRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	bob := env.user(t, "bob", model.RoleStudent)
	alice := env.user(t, "alice", model.RoleStudent)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)

	m, err := env.members.Create(ctx, bob, JoinInput{ClubID: club.ID})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, m.UserID)
	assert.False(t, m.IsAdmin)
	require.NotNil(t, m.User)

	_, err = env.members.Create(ctx, bob, JoinInput{ClubID: club.ID})
	assert.ErrorIs(t, err, ErrConflict)

	// 普通成员不能替别人加入，也不能自封管理员
	_, err = env.members.Create(ctx, bob, JoinInput{ClubID: club.ID, UserID: &alice.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.members.Create(ctx, alice, JoinInput{ClubID: club.ID, IsAdmin: true})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, int64(1), env.count(t, &model.ClubMember{}, "club_id = ?", club.ID))

	added, err := env.members.Create(ctx, carol, JoinInput{ClubID: club.ID, UserID: &alice.ID, IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, added.IsAdmin)

	_, err = env.members.Create(ctx, bob, JoinInput{ClubID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.members.Create(ctx, carol, JoinInput{ClubID: club.ID, UserID: ptr(uint64(9999))})
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := env.members.ListByClub(ctx, club.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestClubMemberService_UpdateAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	bob := env.user(t, "bob", model.RoleStudent)
	alice := env.user(t, "alice", model.RoleStudent)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)
	_, err = env.members.Create(ctx, bob, JoinInput{ClubID: club.ID})
	require.NoError(t, err)
	_, err = env.members.Create(ctx, alice, JoinInput{ClubID: club.ID})
	require.NoError(t, err)

	_, err = env.members.Update(ctx, bob, club.ID, bob.ID, ptr(true))
	assert.ErrorIs(t, err, ErrForbidden)

	m, err := env.members.Update(ctx, carol, club.ID, bob.ID, ptr(true))
	require.NoError(t, err)
	assert.True(t, m.IsAdmin)

	assert.ErrorIs(t, env.members.Delete(ctx, alice, club.ID, bob.ID), ErrForbidden)
	require.NoError(t, env.members.Delete(ctx, alice, club.ID, alice.ID))
	require.NoError(t, env.members.Delete(ctx, carol, club.ID, bob.ID))
	assert.ErrorIs(t, env.members.Delete(ctx, carol, club.ID, bob.ID), ErrNotFound)

	_, err = env.members.ListByUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
