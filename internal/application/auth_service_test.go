package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ortholink/ortholink-api/internal/domain/entity"
	"github.com/ortholink/ortholink-api/pkg/helpers"
)

func authFixture() *AuthService {
	return &AuthService{
		Users: newFakeUserRepo(),
		JWT:   helpers.NewJWTManager("test-access", "test-refresh", 15*time.Minute, 7*24*time.Hour),
		IsAdminEmail: func(email string) bool {
			return email == "root@ortholink.example"
		},
	}
}

func TestSignupRoleFromAllowlist(t *testing.T) {
	svc := authFixture()
	ctx := context.Background()

	admin, err := svc.Signup(ctx, SignupInput{
		Email: "root@ortholink.example", Password: "s3cret-pass", Name: "Root",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	member, err := svc.Signup(ctx, SignupInput{
		Email: "dentist@example.com", Password: "s3cret-pass", Name: "Dana",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, member.Role)
	assert.NotEqual(t, "s3cret-pass", member.Password)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := authFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "s3cret-pass", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "other-pass", Name: "B"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc := authFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "s3cret-pass", Name: "A"})
	require.NoError(t, err)

	u, pair, err := svc.Login(ctx, "a@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", u.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, string(entity.RoleUser), claims.Role)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotates(t *testing.T) {
	svc := authFixture()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupInput{Email: "a@example.com", Password: "s3cret-pass", Name: "A"})
	require.NoError(t, err)
	_, pair, err := svc.Login(ctx, "a@example.com", "s3cret-pass")
	require.NoError(t, err)

	_, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, next.AccessToken)

	// An access token is not accepted as a refresh token.
	_, _, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
