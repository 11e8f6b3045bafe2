package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-formhub/internal/features/user"
	"go-formhub/pkg/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, *user.User, error)
}

type AuthServiceImpl struct {
	UserRepo user.UserRepository
	Logger   *zap.Logger
}

func NewAuthService(userRepo user.UserRepository, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		UserRepo: userRepo,
		Logger:   logger,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, email, password, firstName, lastName string) (*user.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	if _, err := s.UserRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:     email,
		Password:  string(hashed),
		FirstName: firstName,
		LastName:  lastName,
		Role:      user.RoleUser,
	}
	if err := s.UserRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.Logger.Info("user registered", zap.String("email", email))
	return u, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !u.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	_ = s.UserRepo.SetLastLogin(ctx, u.ID, now)
	u.LastLogin = &now

	return token, u, nil
}
