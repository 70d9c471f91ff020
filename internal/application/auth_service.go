package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	repo "github.com/ortholink/ortholink-api/internal/domain/repository"
	"github.com/ortholink/ortholink-api/pkg/helpers"
	"github.com/ortholink/ortholink-api/pkg/mailer"
	"github.com/ortholink/ortholink-api/pkg/mailer/templates"
)

const sessionTTL = 24 * time.Hour

type AuthService struct {
	Users        repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Mail         *helpers.RabbitPublisher
	Logger       *logrus.Logger
	IsAdminEmail func(string) bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// Signup creates an account. The role is decided by the admin-email
// allowlist, never by the request. A welcome email is queued fire-and-forget.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	role := entity.RoleUser
	if s.IsAdminEmail != nil && s.IsAdminEmail(in.Email) {
		role = entity.RoleAdmin
	}
	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Role:     role,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	if s.Mail != nil {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: templates.Welcome,
			Data:     map[string]any{"Name": u.Name},
		}
		if err := s.Mail.PublishJSON(ctx, job); err != nil {
			s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email publish failed")
		}
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// issueTokens mints an access/refresh pair under a fresh session id and
// records the session hash in Redis.
func (s *AuthService) issueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, string(u.Role), sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, string(u.Role), sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("session write failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the session id and both tokens. The refresh token must
// carry the session id currently stored in Redis.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		sid, err := s.Redis.HGet(ctx, sessionKey(u.ID), "sid").Result()
		if err != nil || sid != claims.SessionID {
			return nil, TokenPair{}, ErrInvalidCredentials
		}
	}
	pair, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *AuthService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	AvatarURL string
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrNotFound
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		if err := s.Redis.HSet(ctx, key, map[string]any{
			"name":       u.Name,
			"updated_at": nowRFC3339(),
		}).Err(); err != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("session update failed")
		}
	}
	return u, nil
}
