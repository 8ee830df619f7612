package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aura-fashion/shop-backend/internal/hash"
	"github.com/aura-fashion/shop-backend/internal/logging"
	"github.com/aura-fashion/shop-backend/internal/models"
	"github.com/aura-fashion/shop-backend/internal/mykafka"
	"github.com/aura-fashion/shop-backend/internal/otp"
	"github.com/aura-fashion/shop-backend/pkg/tokens"
	"gorm.io/gorm"
)

const topicUserEvents = "user-events"

type Auth struct {
	Repo           authRepo
	OTP            *otp.Store
	Producer       *mykafka.Producer
	JWTSecret      []byte
	AccessTokenTTL time.Duration
}

type authRepo interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	CartForUser(ctx context.Context, userID uint) (*models.Cart, error)
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

func (s *Auth) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email and a password of at least 8 characters are required", ErrValidation)
	}

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	// Every account gets a cart up front.
	if _, err := s.Repo.CartForUser(ctx, user.ID); err != nil {
		return nil, err
	}

	s.publish(ctx, "user.registered", map[string]any{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *Auth) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
		}
		return "", nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrValidation)
	}

	token, err := tokens.NewAccessToken(s.JWTSecret, user.ID, user.Role, s.AccessTokenTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Auth) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// UpdateProfile patches the mutable profile fields; email, role and password
// go through their own flows.
func (s *Auth) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ForgotPassword issues an OTP and hands delivery to the notification
// pipeline. It reports success for unknown emails too, so the endpoint does
// not leak which addresses have accounts.
func (s *Auth) ForgotPassword(ctx context.Context, email string) error {
	if s.OTP == nil {
		return errors.New("password reset is not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.Repo.UserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code, err := s.OTP.Issue(ctx, email)
	if err != nil {
		return err
	}

	s.publish(ctx, "user.password_reset_otp", map[string]any{
		"email": email,
		"otp":   code,
	})
	return nil
}

func (s *Auth) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if s.OTP == nil {
		return errors.New("password reset is not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	ok, err := s.OTP.Consume(ctx, email, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: invalid or expired code", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: invalid or expired code", ErrValidation)
		}
		return err
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	return s.Repo.SaveUser(ctx, user)
}

func (s *Auth) publish(ctx context.Context, key string, event any) {
	if err := s.Producer.PublishEvent(ctx, topicUserEvents, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish user event failed", "key", key, "error", err)
	}
}
