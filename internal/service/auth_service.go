package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AizaAsim/CampusConnect/internal/model"
	"github.com/AizaAsim/CampusConnect/internal/pkg"
	"github.com/AizaAsim/CampusConnect/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只接受 72 字节以内的密码
const maxPasswordBytes = 72

type AuthService struct {
	users    UserStore
	tokens   *pkg.TokenManager
	hashCost int
	log      *zap.Logger
}

type AuthOption func(*AuthService)

// WithHashCost 测试里用 bcrypt.MinCost 加速
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(users UserStore, tokens *pkg.TokenManager, log *zap.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	Username string
	Password string
	FullName string
	Role     string
}

// LoginResult token 与当前用户
type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// ValidateCredentials 用户名不存在或密码错误都返回 nil
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	user.Password = ""
	return user, nil
}

func (s *AuthService) IssueSession(user *model.User) (string, error) {
	return s.tokens.Generate(user.ID, user.Username, string(user.Role))
}

// VerifySession 任何校验失败都返回 nil，不向上抛错
func (s *AuthService) VerifySession(ctx context.Context, token string) *model.User {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("verify session: load user", zap.Uint64("user_id", claims.UserID), zap.Error(err))
		}
		return nil
	}
	return user
}

// Register 默认 STUDENT；显式角色必须是已知角色
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	role := model.RoleStudent
	if in.Role != "" {
		r, ok := model.ParseRole(in.Role)
		if !ok {
			return nil, invalid("unknown role %q", in.Role)
		}
		role = r
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, conflict("username %q is already taken", username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Password: string(hash),
		FullName: strings.TrimSpace(in.FullName),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, duplicate(err, "username %q is already taken", username)
	}
	s.log.Info("user registered", zap.Uint64("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.ValidateCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, unauthorized("invalid username or password")
	}
	token, err := s.IssueSession(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}
