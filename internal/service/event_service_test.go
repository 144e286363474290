package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureTime() time.Time {
	return time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
}

func TestEventService_CreateNotifiesEachMemberOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	bob := env.user(t, "bob", model.RoleStudent)
	dave := env.user(t, "dave", model.RoleStudent)
	outsider := env.user(t, "outsider", model.RoleStudent)
	env.notifier.online[bob.ID] = true

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)
	for _, u := range []*model.User{bob, dave} {
		_, err := env.members.Create(ctx, u, JoinInput{ClubID: club.ID})
		require.NoError(t, err)
	}

	ev, err := env.events.Create(ctx, carol, EventInput{Title: "Blitz night", DateTime: futureTime(), Location: "Room 1", ClubID: &club.ID})
	require.NoError(t, err)
	assert.Equal(t, carol.ID, ev.OrganizerID)
	require.NotNil(t, ev.Club)

	for _, u := range []*model.User{bob, dave} {
		got := env.notifier.to(u.ID)
		require.Len(t, got, 1, u.Username)
		assert.Equal(t, notification.KindEvent, got[0].Type)
		assert.Equal(t, "Blitz night", got[0].Title)
		assert.Equal(t, ev.ID, got[0].Data["eventId"])
	}
	assert.Empty(t, env.notifier.to(outsider.ID))
	assert.Empty(t, env.notifier.to(carol.ID))
}

func TestEventService_CreateMissingClubWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", model.RoleStudent)

	_, err := env.events.Create(ctx, alice, EventInput{Title: "Ghost", DateTime: futureTime(), Location: "?", ClubID: ptr(uint64(77))})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int64(0), env.count(t, &model.Event{}, "1 = 1"))

	_, err = env.events.Create(ctx, alice, EventInput{Title: "", DateTime: futureTime(), Location: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.events.Create(ctx, alice, EventInput{Title: "No date", Location: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEventService_ManagePermissions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carol := env.user(t, "carol", model.RoleClubAdmin)
	bob := env.user(t, "bob", model.RoleStudent)
	alice := env.user(t, "alice", model.RoleStudent)
	admin := env.user(t, "root", model.RoleAdmin)

	club, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Chess"})
	require.NoError(t, err)
	other, err := env.clubs.Create(ctx, carol, ClubInput{Name: "Go"})
	require.NoError(t, err)

	// bob 组织、挂在 carol 的社团下
	ev, err := env.events.Create(ctx, bob, EventInput{Title: "Study", DateTime: futureTime(), Location: "Lib", ClubID: &club.ID})
	require.NoError(t, err)

	_, err = env.events.Update(ctx, alice, ev.ID, EventPatch{Title: ptr("Mine now")})
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := env.events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Study", got.Title)

	updated, err := env.events.Update(ctx, carol, ev.ID, EventPatch{Location: ptr("Hall B"), ClubID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, "Hall B", updated.Location)
	require.NotNil(t, updated.ClubID)
	assert.Equal(t, other.ID, *updated.ClubID)

	_, err = env.events.Update(ctx, bob, ev.ID, EventPatch{ClubID: ptr(uint64(555))})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, env.events.Delete(ctx, alice, ev.ID), ErrForbidden)
	require.NoError(t, env.events.Delete(ctx, admin, ev.ID))
	_, err = env.events.Get(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventService_ListFuture(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice", model.RoleStudent)

	now := time.Now().UTC().Truncate(time.Second)
	env.events.now = func() time.Time { return now }
	_, err := env.events.Create(ctx, alice, EventInput{Title: "past", DateTime: now.Add(-24 * time.Hour), Location: "a"})
	require.NoError(t, err)
	_, err = env.events.Create(ctx, alice, EventInput{Title: "next", DateTime: now.Add(24 * time.Hour), Location: "b"})
	require.NoError(t, err)

	list, err := env.events.ListFuture(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "next", list[0].Title)

	_, err = env.events.ListByClub(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventAttendeeService_RSVP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.user(t, "bob", model.RoleStudent)
	alice := env.user(t, "alice", model.RoleStudent)
	admin := env.user(t, "root", model.RoleAdmin)

	ev, err := env.events.Create(ctx, alice, EventInput{Title: "Talk", DateTime: futureTime(), Location: "Aula"})
	require.NoError(t, err)

	a, err := env.attendees.Create(ctx, bob, RSVPInput{EventID: ev.ID})
	require.NoError(t, err)
	assert.Equal(t, model.StatusGoing, a.Status)
	assert.Equal(t, bob.ID, a.UserID)

	_, err = env.attendees.Create(ctx, bob, RSVPInput{EventID: ev.ID, Status: model.StatusInterested})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.attendees.Create(ctx, alice, RSVPInput{EventID: ev.ID, UserID: &bob.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.attendees.Create(ctx, alice, RSVPInput{EventID: ev.ID, Status: "MAYBE"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.attendees.Create(ctx, alice, RSVPInput{EventID: 999})
	assert.ErrorIs(t, err, ErrNotFound)

	// 管理员也不能替别人改报名状态
	_, err = env.attendees.Update(ctx, admin, ev.ID, bob.ID, model.StatusNotGoing)
	assert.ErrorIs(t, err, ErrForbidden)
	updated, err := env.attendees.Update(ctx, bob, ev.ID, bob.ID, model.StatusInterested)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterested, updated.Status)

	list, err := env.attendees.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Talk", list[0].Event.Title)

	assert.ErrorIs(t, env.attendees.Delete(ctx, admin, ev.ID, bob.ID), ErrForbidden)
	require.NoError(t, env.attendees.Delete(ctx, bob, ev.ID, bob.ID))
	assert.ErrorIs(t, env.attendees.Delete(ctx, bob, ev.ID, bob.ID), ErrNotFound)
}

func TestEventAttendeeService_ConcurrentRSVP(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bob := env.user(t, "bob", model.RoleStudent)
	alice := env.user(t, "alice", model.RoleStudent)
	ev, err := env.events.Create(ctx, alice, EventInput{Title: "Popular", DateTime: futureTime(), Location: "Aula"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.attendees.Create(ctx, bob, RSVPInput{EventID: ev.ID})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, int64(1), env.count(t, &model.EventAttendee{}, "event_id = ?", ev.ID))
}
