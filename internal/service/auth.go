package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ardhiansyah/toko-api/internal/apperr"
	"github.com/ardhiansyah/toko-api/internal/hash"
	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/models"
	"github.com/ardhiansyah/toko-api/internal/mykafka"
	"github.com/ardhiansyah/toko-api/internal/repo"
	"github.com/ardhiansyah/toko-api/internal/tokens"
	"github.com/ardhiansyah/toko-api/internal/transport"
)

// DefaultShopID is the shop every self-registered user is attached to.
const DefaultShopID uint = 1

type AuthService struct {
	Repo      *repo.GormRepo
	Producer  *mykafka.Producer
	JWTSecret []byte
	JWTExpire time.Duration
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.Auth, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	taken, err := s.Repo.EmailTaken(ctx, req.Email)
	if err != nil {
		l.Error("register_error", "status", 502, "reason", "cannot check email", "error", err)
		return nil, apperr.Upstream("cannot check email", err)
	}
	if taken {
		l.Warn("register_error", "status", 400, "reason", "email already taken")
		return nil, apperr.Validation("User email already taken")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 502, "reason", "cannot hash password", "error", err)
		return nil, apperr.Upstream("cannot process password", err)
	}

	shopID := DefaultShopID
	user := &models.User{
		Name:    req.Name,
		Address: req.Address,
		Age:     req.Age,
		Role:    models.RoleUser,
		ShopID:  &shopID,
	}

	auth, err := s.Repo.CreateAccount(ctx, user, req.Email, pwHash)
	if err != nil {
		// a concurrent registration can slip past the EmailTaken check and
		// land on the unique constraint instead
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register_error", "status", 400, "reason", "email already taken")
			return nil, apperr.Validation("User email already taken")
		}
		l.Error("register_error", "status", 502, "reason", "cannot create account", "error", err)
		return nil, apperr.Upstream("cannot create account", err)
	}

	event := map[string]interface{}{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  auth.Email,
	}
	if err := s.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(user.ID), event); err != nil {
		l.Error("kafka_publish_error", "error", err)
	}

	l.Info("register_success", "userID", user.ID)
	return auth, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	auth, err := s.Repo.FindAuthByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// deliberately the same message as a wrong password
			l.Warn("login_failed", "status", 400, "reason", "unknown email")
			return "", apperr.Validation("wrong password atau user doesn't exist")
		}
		l.Error("login_failed", "status", 502, "error", err)
		return "", apperr.Upstream("cannot look up credentials", err)
	}

	if !hash.CheckPassword(auth.PasswordHash, req.Password) {
		l.Warn("login_failed", "status", 400, "reason", "password mismatch")
		return "", apperr.Validation("wrong password atau user doesn't exist")
	}

	claims := tokens.SessionClaims{
		UserID:   auth.User.ID,
		Username: auth.User.Name,
		Role:     auth.User.Role,
		Email:    auth.Email,
	}
	token, err := tokens.Sign(claims, s.JWTSecret, s.JWTExpire)
	if err != nil {
		l.Error("login_failed", "status", 502, "reason", "cannot sign token", "error", err)
		return "", apperr.Upstream("cannot sign token", err)
	}

	l.Info("login_success", "userID", auth.User.ID)
	return token, nil
}
