package service

import (
	"sync"
	"testing"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/notification"
	"github.com/AizaAsim/CampusConnect/internal/pkg"
	"github.com/AizaAsim/CampusConnect/internal/repository/mysql"
	"github.com/AizaAsim/CampusConnect/internal/testutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sent struct {
	userID uint64
	n      notification.Notification
}

// recordingNotifier 记录每次推送，online 中的用户视为在线
type recordingNotifier struct {
	mu     sync.Mutex
	online map[uint64]bool
	sent   []sent
}

func (r *recordingNotifier) SendToUser(userID uint64, n notification.Notification) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{userID: userID, n: n})
	if r.online[userID] {
		return 1
	}
	return 0
}

func (r *recordingNotifier) to(userID uint64) []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, s := range r.sent {
		if s.userID == userID {
			out = append(out, s.n)
		}
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	notifier  *recordingNotifier
	tokens    *pkg.TokenManager
	auth      *AuthService
	users     *UserService
	clubs     *ClubService
	members   *ClubMemberService
	events    *EventService
	attendees *EventAttendeeService
	posts     *PostService
	comments  *CommentService
	stats     *StatisticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop()
	notifier := &recordingNotifier{online: map[uint64]bool{}}

	userRepo := mysql.NewUserRepository(db)
	clubRepo := mysql.NewClubRepository(db)
	memberRepo := mysql.NewClubMemberRepository(db)
	eventRepo := mysql.NewEventRepository(db)
	attendeeRepo := mysql.NewEventAttendeeRepository(db)
	postRepo := mysql.NewPostRepository(db)
	commentRepo := mysql.NewCommentRepository(db)
	tokens := pkg.NewTokenManager("test-secret", 0, "campusconnect")

	return &testEnv{
		db:        db,
		notifier:  notifier,
		tokens:    tokens,
		auth:      NewAuthService(userRepo, tokens, log, WithHashCost(bcrypt.MinCost)),
		users:     NewUserService(userRepo, log),
		clubs:     NewClubService(clubRepo, memberRepo, userRepo, notifier, log),
		members:   NewClubMemberService(memberRepo, clubRepo, userRepo, log),
		events:    NewEventService(eventRepo, clubRepo, memberRepo, notifier, log),
		attendees: NewEventAttendeeService(attendeeRepo, eventRepo, userRepo, log),
		posts:     NewPostService(postRepo, userRepo, log),
		comments:  NewCommentService(commentRepo, postRepo, notifier, log),
		stats:     NewStatisticsService(mysql.NewStatisticsRepository(db), userRepo, nil, log),
	}
}

func (e *testEnv) user(t *testing.T, name string, role model.Role) *model.User {
	t.Helper()
	return testutil.CreateUser(t, e.db, name, role)
}

func (e *testEnv) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func ptr[T any](v T) *T { return &v }

func mysqlUsers(env *testEnv) UserStore {
	return mysql.NewUserRepository(env.db)
}
