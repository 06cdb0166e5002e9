package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/config"
	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/internal/app/repository"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
	"github.com/bhmida/bricodirect-backend/pkg/redis"
	"github.com/bhmida/bricodirect-backend/pkg/util"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	CompanyName  string
	Phone        string
	Address      string
	CustomerType model.CustomerType
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(email, password string) (*util.TokenPair, *model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	GetMe(userID uint) (*model.User, error)
	UpdateMe(userID uint, name, phone, address string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
}

func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, error) {
	logger.Info("Registering new user", map[string]interface{}{
		"email":         input.Email,
		"customer_type": input.CustomerType,
	})

	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		logger.Warn("Registration rejected: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing email", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	customerType := input.CustomerType
	if customerType == "" {
		customerType = model.CustomerB2C
	}

	user := &model.User{
		Email:              input.Email,
		PasswordHash:       hash,
		Name:               input.Name,
		CompanyName:        input.CompanyName,
		Phone:              input.Phone,
		Address:            input.Address,
		Role:               model.RoleCustomer,
		CustomerType:       customerType,
		FinancialLimit:     decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":       user.ID,
		"customer_type": user.CustomerType,
	})
	return user, nil
}

func (s *authService) Login(email, password string) (*util.TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to fetch user for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		string(user.CustomerType),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in", map[string]interface{}{
		"user_id":       user.ID,
		"customer_type": user.CustomerType,
	})
	return tokens, user, nil
}

// RefreshToken exchanges a valid, non-revoked refresh token for a new pair.
// Claims are re-read from the database so a role or customer-type change
// takes effect at the next refresh.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	revoked, err := redis.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return nil, err
	}
	if revoked {
		logger.Warn("Refresh rejected: token revoked", nil)
		return nil, ErrTokenRevoked
	}

	claims, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		string(user.CustomerType),
		s.jwtCfg.Secret,
		s.jwtCfg.AccessTokenExpiry,
		s.jwtCfg.RefreshTokenExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens on refresh", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Token refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

// RevokeToken blacklists a refresh token until its natural expiry.
func (s *authService) RevokeToken(ctx context.Context, refreshToken string) error {
	if _, err := util.ValidateToken(refreshToken, s.jwtCfg.Secret); err != nil {
		// An invalid or expired token needs no blacklist entry.
		return nil
	}
	return redis.BlacklistToken(ctx, refreshToken, s.jwtCfg.RefreshTokenExpiry)
}

func (s *authService) GetMe(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateMe(userID uint, name, phone, address string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" {
		user.Phone = phone
	}
	if address != "" {
		user.Address = address
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
