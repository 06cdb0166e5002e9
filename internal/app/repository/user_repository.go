package repository

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bhmida/bricodirect-backend/internal/app/model"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	AddToOutstandingBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// AddToOutstandingBalance moves a customer's credit exposure inside the
// caller's transaction (quotation approval adds, rejection of an approved
// quotation subtracts).
func (r *userRepository) AddToOutstandingBalance(tx *gorm.DB, userID uint, amount decimal.Decimal) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.Model(&model.User{}).
		Where("id = ?", userID).
		Update("outstanding_balance", gorm.Expr("outstanding_balance + ?", amount)).Error
}
