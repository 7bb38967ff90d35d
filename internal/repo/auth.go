package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ardhiansyah/toko-api/internal/models"
)

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var auth models.Auth
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&auth).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateAccount creates the User and its Auth credential in a single
// transaction so a failed credential insert never leaves an orphan user.
func (r *GormRepo) CreateAccount(ctx context.Context, user *models.User, email, passwordHash string) (*models.Auth, error) {
	auth := &models.Auth{
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		auth.UserID = user.ID
		return tx.Create(auth).Error
	})
	if err != nil {
		return nil, err
	}
	auth.User = *user
	return auth, nil
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAuthByEmail loads the credential together with its linked user.
func (r *GormRepo) FindAuthByEmail(ctx context.Context, email string) (*models.Auth, error) {
	var auth models.Auth
	if err := r.DB.WithContext(ctx).Preload("User").Where("email = ?", email).First(&auth).Error; err != nil {
		return nil, err
	}
	return &auth, nil
}
