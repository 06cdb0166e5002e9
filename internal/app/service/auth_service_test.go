package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/config"
	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/internal/db"
	"github.com/bhmida/bricodirect-backend/pkg/util"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	jwtCfg := config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
	return NewAuthService(userRepo, jwtCfg), testDB
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, err := authService.Register(RegisterInput{
		Email:    "client@example.com",
		Password: "password123",
		Name:     "Client Détail",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleCustomer, user.Role)
	// Unspecified customer type defaults to retail.
	assert.Equal(t, model.CustomerB2C, user.CustomerType)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestAuthService_Register_B2B(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, err := authService.Register(RegisterInput{
		Email:        "pro@example.com",
		Password:     "password123",
		Name:         "Entreprise BTP",
		CompanyName:  "BTP Construction SARL",
		CustomerType: model.CustomerB2B,
	})
	require.NoError(t, err)
	assert.Equal(t, model.CustomerB2B, user.CustomerType)
	assert.Equal(t, "BTP Construction SARL", user.CompanyName)
	assert.True(t, user.FinancialLimit.IsZero())
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{Email: "client@example.com", Password: "pw123456", Name: "A"})
	require.NoError(t, err)

	_, err = authService.Register(RegisterInput{Email: "client@example.com", Password: "pw123456", Name: "B"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{
		Email:        "pro@example.com",
		Password:     "password123",
		Name:         "Entreprise BTP",
		CustomerType: model.CustomerB2B,
	})
	require.NoError(t, err)

	tokens, user, err := authService.Login("pro@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// Customer type rides in the claims so checkout can branch on it.
	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.CustomerB2B), claims.CustomerType)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{Email: "client@example.com", Password: "password123", Name: "A"})
	require.NoError(t, err)

	_, _, err = authService.Login("client@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.Register(RegisterInput{Email: "client@example.com", Password: "password123", Name: "A"})
	require.NoError(t, err)
	tokens, _, err := authService.Login("client@example.com", "password123")
	require.NoError(t, err)

	refreshed, err := authService.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_RefreshToken_Invalid(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, err := authService.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, util.ErrInvalidToken)
}

func TestAuthService_GetMe(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	created, err := authService.Register(RegisterInput{Email: "client@example.com", Password: "password123", Name: "A"})
	require.NoError(t, err)

	user, err := authService.GetMe(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "client@example.com", user.Email)

	_, err = authService.GetMe(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateMe(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	created, err := authService.Register(RegisterInput{Email: "client@example.com", Password: "password123", Name: "A"})
	require.NoError(t, err)

	updated, err := authService.UpdateMe(created.ID, "Nouveau Nom", "+216 20 123 456", "Rue de Marseille, Tunis")
	require.NoError(t, err)
	assert.Equal(t, "Nouveau Nom", updated.Name)
	assert.Equal(t, "+216 20 123 456", updated.Phone)

	// Empty fields keep their previous value.
	kept, err := authService.UpdateMe(created.ID, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Nouveau Nom", kept.Name)
}
