package mysql_test

import (
	"context"
	"testing"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/repository"
	"github.com/AizaAsim/CampusConnect/internal/repository/mysql"
	"github.com/AizaAsim/CampusConnect/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func u64Ptr(v uint64) *uint64 { return &v }

func countRows(t *testing.T, db *gorm.DB, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Username: "alice", Password: "x", FullName: "Alice", Role: model.RoleStudent}))
	err := repo.Create(ctx, &model.User{Username: "alice", Password: "y", FullName: "Alice 2", Role: model.RoleStudent})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClubMemberRepository_UniqueMembership(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, db, "carol", model.RoleClubAdmin)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)

	clubs := mysql.NewClubRepository(db)
	members := mysql.NewClubMemberRepository(db)
	club := &model.Club{Name: "Chess", AdminID: admin.ID}
	require.NoError(t, clubs.Create(ctx, club))

	require.NoError(t, members.Create(ctx, &model.ClubMember{ClubID: club.ID, UserID: bob.ID}))
	err := members.Create(ctx, &model.ClubMember{ClubID: club.ID, UserID: bob.ID})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	assert.Equal(t, int64(1), countRows(t, db, &model.ClubMember{}, "club_id = ?", club.ID))
	// 失败的插入不应留下 outbox 记录
	assert.Equal(t, int64(1), countRows(t, db, &model.ActivityOutbox{}, "event_type = ?", model.ActivityMemberJoined))

	got, err := members.Find(ctx, club.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, got.User)
	assert.Equal(t, "bob", got.User.Username)

	ids, err := members.MemberIDs(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{bob.ID}, ids)
}

func TestEventAttendeeRepository_UniqueRSVP(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	org := testutil.CreateUser(t, db, "org", model.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)

	events := mysql.NewEventRepository(db)
	attendees := mysql.NewEventAttendeeRepository(db)
	e := &model.Event{Title: "Meetup", DateTime: time.Now().UTC().Add(48 * time.Hour), Location: "Hall", OrganizerID: org.ID}
	require.NoError(t, events.Create(ctx, e))

	require.NoError(t, attendees.Create(ctx, &model.EventAttendee{EventID: e.ID, UserID: bob.ID, Status: model.StatusGoing}))
	err := attendees.Create(ctx, &model.EventAttendee{EventID: e.ID, UserID: bob.ID, Status: model.StatusInterested})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	a, err := attendees.Find(ctx, e.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, attendees.UpdateStatus(ctx, a.ID, model.StatusNotGoing))
	a, err = attendees.Find(ctx, e.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotGoing, a.Status)

	list, err := events.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Counts)
	assert.Equal(t, int64(1), list[0].Counts.Attendees)
}

func TestClubRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	carol := testutil.CreateUser(t, db, "carol", model.RoleClubAdmin)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)

	clubs := mysql.NewClubRepository(db)
	members := mysql.NewClubMemberRepository(db)
	events := mysql.NewEventRepository(db)

	club := &model.Club{Name: "Robotics", AdminID: carol.ID}
	require.NoError(t, clubs.Create(ctx, club))
	require.NoError(t, members.Create(ctx, &model.ClubMember{ClubID: club.ID, UserID: bob.ID}))
	e := &model.Event{Title: "Build night", DateTime: time.Now().UTC().Add(time.Hour), Location: "Lab", OrganizerID: carol.ID, ClubID: u64Ptr(club.ID)}
	require.NoError(t, events.Create(ctx, e))

	require.NoError(t, clubs.Delete(ctx, club.ID))

	_, err := clubs.FindByID(ctx, club.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &model.ClubMember{}, "club_id = ?", club.ID))

	detached, err := events.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.ClubID)

	assert.ErrorIs(t, clubs.Delete(ctx, club.ID), repository.ErrNotFound)
}

func TestClubRepository_ListByUserAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	carol := testutil.CreateUser(t, db, "carol", model.RoleClubAdmin)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)

	clubs := mysql.NewClubRepository(db)
	members := mysql.NewClubMemberRepository(db)

	zebra := &model.Club{Name: "Zebra", AdminID: carol.ID}
	alpha := &model.Club{Name: "Alpha", AdminID: carol.ID}
	other := &model.Club{Name: "Mid", AdminID: bob.ID}
	for _, c := range []*model.Club{zebra, alpha, other} {
		require.NoError(t, clubs.Create(ctx, c))
	}
	require.NoError(t, members.Create(ctx, &model.ClubMember{ClubID: zebra.ID, UserID: bob.ID}))

	all, err := clubs.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alpha", "Mid", "Zebra"}, []string{all[0].Name, all[1].Name, all[2].Name})
	assert.Equal(t, int64(1), all[2].Counts.Members)
	assert.Equal(t, int64(0), all[0].Counts.Members)

	bobs, err := clubs.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobs, 2)
	assert.Equal(t, "Mid", bobs[0].Name)
	assert.Equal(t, "Zebra", bobs[1].Name)

	require.NoError(t, clubs.Update(ctx, alpha.ID, map[string]any{"category": "Sports"}))
	got, err := clubs.FindDetail(ctx, alpha.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Sports", *got.Category)
	require.NotNil(t, got.Admin)
	assert.Equal(t, carol.ID, got.Admin.ID)
}

func TestEventRepository_OrderingAndFuture(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	org := testutil.CreateUser(t, db, "org", model.RoleStudent)
	events := mysql.NewEventRepository(db)

	now := time.Now().UTC().Truncate(time.Second)
	past := &model.Event{Title: "past", DateTime: now.Add(-48 * time.Hour), Location: "A", OrganizerID: org.ID}
	later := &model.Event{Title: "later", DateTime: now.Add(72 * time.Hour), Location: "B", OrganizerID: org.ID}
	soon := &model.Event{Title: "soon", DateTime: now.Add(24 * time.Hour), Location: "C", OrganizerID: org.ID}
	for _, e := range []*model.Event{past, later, soon} {
		require.NoError(t, events.Create(ctx, e))
	}

	all, err := events.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"past", "soon", "later"}, []string{all[0].Title, all[1].Title, all[2].Title})

	future, err := events.ListFrom(ctx, now)
	require.NoError(t, err)
	require.Len(t, future, 2)
	assert.Equal(t, "soon", future[0].Title)
	assert.Equal(t, "later", future[1].Title)
}

func TestEventRepository_DeleteRemovesAttendees(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	org := testutil.CreateUser(t, db, "org", model.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)
	events := mysql.NewEventRepository(db)
	attendees := mysql.NewEventAttendeeRepository(db)

	e := &model.Event{Title: "Talk", DateTime: time.Now().UTC().Add(time.Hour), Location: "Aula", OrganizerID: org.ID}
	require.NoError(t, events.Create(ctx, e))
	require.NoError(t, attendees.Create(ctx, &model.EventAttendee{EventID: e.ID, UserID: bob.ID, Status: model.StatusGoing}))

	require.NoError(t, events.Delete(ctx, e.ID))
	assert.Equal(t, int64(0), countRows(t, db, &model.EventAttendee{}, "event_id = ?", e.ID))
	assert.ErrorIs(t, events.Delete(ctx, e.ID), repository.ErrNotFound)
}

func TestPostRepository_DeleteRemovesComments(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", model.RoleStudent)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)
	posts := mysql.NewPostRepository(db)
	comments := mysql.NewCommentRepository(db)

	p := &model.Post{Title: "Hello", Content: "first", AuthorID: alice.ID}
	require.NoError(t, posts.Create(ctx, p))
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "hi", PostID: p.ID, AuthorID: bob.ID}))

	detail, err := posts.FindDetail(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "bob", detail.Comments[0].Author.Username)

	require.NoError(t, posts.Delete(ctx, p.ID))
	assert.Equal(t, int64(0), countRows(t, db, &model.Comment{}, "post_id = ?", p.ID))
	_, err = posts.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	carol := testutil.CreateUser(t, db, "carol", model.RoleClubAdmin)
	bob := testutil.CreateUser(t, db, "bob", model.RoleStudent)

	clubs := mysql.NewClubRepository(db)
	members := mysql.NewClubMemberRepository(db)
	events := mysql.NewEventRepository(db)
	attendees := mysql.NewEventAttendeeRepository(db)
	posts := mysql.NewPostRepository(db)
	comments := mysql.NewCommentRepository(db)
	users := mysql.NewUserRepository(db)

	club := &model.Club{Name: "Drama", AdminID: carol.ID, Category: strPtr("Arts")}
	require.NoError(t, clubs.Create(ctx, club))
	require.NoError(t, members.Create(ctx, &model.ClubMember{ClubID: club.ID, UserID: bob.ID}))

	carolEvent := &model.Event{Title: "Rehearsal", DateTime: time.Now().UTC().Add(time.Hour), Location: "Stage", OrganizerID: carol.ID, ClubID: u64Ptr(club.ID)}
	require.NoError(t, events.Create(ctx, carolEvent))
	bobEvent := &model.Event{Title: "Party", DateTime: time.Now().UTC().Add(2 * time.Hour), Location: "Dorm", OrganizerID: bob.ID, ClubID: u64Ptr(club.ID)}
	require.NoError(t, events.Create(ctx, bobEvent))
	require.NoError(t, attendees.Create(ctx, &model.EventAttendee{EventID: carolEvent.ID, UserID: bob.ID, Status: model.StatusGoing}))

	carolPost := &model.Post{Title: "Auditions", Content: "open", AuthorID: carol.ID}
	require.NoError(t, posts.Create(ctx, carolPost))
	bobPost := &model.Post{Title: "Question", Content: "?", AuthorID: bob.ID}
	require.NoError(t, posts.Create(ctx, bobPost))
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "me!", PostID: carolPost.ID, AuthorID: bob.ID}))
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "answer", PostID: bobPost.ID, AuthorID: bob.ID}))

	require.NoError(t, users.Delete(ctx, carol.ID))

	_, err := users.FindByID(ctx, carol.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = clubs.FindByID(ctx, club.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &model.ClubMember{}, "club_id = ?", club.ID))
	_, err = events.FindByID(ctx, carolEvent.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &model.EventAttendee{}, "event_id = ?", carolEvent.ID))
	_, err = posts.FindByID(ctx, carolPost.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, int64(0), countRows(t, db, &model.Comment{}, "post_id = ?", carolPost.ID))

	// bob 的数据保留，活动与已删除的社团解除关联
	kept, err := events.FindByID(ctx, bobEvent.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.ClubID)
	_, err = posts.FindByID(ctx, bobPost.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, &model.Comment{}, "post_id = ?", bobPost.ID))

	assert.ErrorIs(t, users.Delete(ctx, carol.ID), repository.ErrNotFound)
}

func TestOutboxRepository_RetryAndSuccess(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice", model.RoleStudent)
	posts := mysql.NewPostRepository(db)
	outbox := mysql.NewOutboxRepository(db)

	require.NoError(t, posts.Create(ctx, &model.Post{Title: "one", Content: "1", AuthorID: alice.ID}))
	require.NoError(t, posts.Create(ctx, &model.Post{Title: "two", Content: "2", AuthorID: alice.ID}))

	rows, err := outbox.List(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.ActivityPostCreated, rows[0].EventType)
	assert.Contains(t, rows[0].Payload, `"title":"one"`)

	require.NoError(t, outbox.SuccessUpdate(ctx, rows[0].ID))
	require.NoError(t, outbox.RetryUpdate(ctx, rows[1].ID))

	rows2, err := outbox.List(ctx, 10, 2)
	require.NoError(t, err)
	require.Len(t, rows2, 1)
	assert.Equal(t, model.OutboxFailed, rows2[0].Status)
	assert.Equal(t, 1, rows2[0].Retry)

	// 达到重试上限后不再取出
	require.NoError(t, outbox.RetryUpdate(ctx, rows[1].ID))
	rows3, err := outbox.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, rows3)
}
