package services

import (
	"context"
	"testing"

	"btohub/internal/config"
	"btohub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *fakeUserRepo, *fakeRefreshTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeRefreshTokenRepo()
	svc := NewAuthService(users, tokens, config.JWTConfig{
		Secret:           "test-secret",
		RefreshSecret:    "test-refresh-secret",
		AccessTokenMins:  15,
		RefreshTokenDays: 7,
	})
	return svc, users, tokens
}

func validRegistration() *RegisterInput {
	return &RegisterInput{
		NationalID:    "S1234567A",
		Name:          "John",
		Password:      "password123",
		Age:           35,
		MaritalStatus: domain.Single,
	}
}

func TestRegisterCreatesApplicant(t *testing.T) {
	svc, _, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), validRegistration())

	require.NoError(t, err)
	assert.Equal(t, domain.RoleApplicant, user.Role)
	assert.True(t, user.IsActive)
	// password is stored hashed
	assert.NotEqual(t, "password123", user.Password)
}

func TestRegisterValidatesNationalID(t *testing.T) {
	svc, _, _ := newAuthFixture()

	input := validRegistration()
	input.NationalID = "12345678A"

	_, err := svc.Register(context.Background(), input)

	assert.ErrorIs(t, err, ErrInvalidNationalID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()

	input := validRegistration()
	input.Password = "short"

	_, err := svc.Register(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegisterRejectsDuplicateNationalID(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegistration())

	assert.ErrorIs(t, err, ErrUserExists)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, pair, err := svc.Login(ctx, &LoginInput{NationalID: "S1234567A", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "S1234567A", user.NationalID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Len(t, tokens.tokens, 1)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &LoginInput{NationalID: "S1234567A", Password: "wrong-password"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, users, _ := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, users.Update(ctx, user))

	_, _, err = svc.Login(ctx, &LoginInput{NationalID: "S1234567A", Password: "password123"})

	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, pair, err := svc.Login(ctx, &LoginInput{NationalID: "S1234567A", Password: "password123"})
	require.NoError(t, err)

	newPair, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newPair.AccessToken)
	assert.Len(t, tokens.tokens, 2)

	// the presented token is single use
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, first, err := svc.Login(ctx, &LoginInput{NationalID: "S1234567A", Password: "password123"})
	require.NoError(t, err)
	_, _, err = svc.Login(ctx, &LoginInput{NationalID: "S1234567A", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, user.ID))

	for _, tok := range tokens.tokens {
		assert.True(t, tok.IsRevoked())
	}
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
