package services

import (
	"context"
	"strings"

	"github.com/carwash/carwash-backend/internal/apperror"
	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/pkg/jwt"
	"github.com/carwash/carwash-backend/pkg/validator"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence used for accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email *string) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ListUsers(ctx context.Context, filter models.UserFilter, page models.PageRequest) ([]models.User, int, error)
}

// UserService handles registration, login and profiles
type UserService struct {
	users      UserStore
	jwt        *jwt.Service
	bcryptCost int
	phone      *validator.PhoneValidator
	logger     *logrus.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, jwtService *jwt.Service, bcryptCost int, logger *logrus.Logger) *UserService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		jwt:        jwtService,
		bcryptCost: bcryptCost,
		phone:      validator.NewPhoneValidator(),
		logger:     logger,
	}
}

// Register creates a customer account and signs a token for it
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	taken, err := s.users.EmailTaken(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.NewConflict("Email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to hash password", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if req.Phone != nil && *req.Phone != "" {
		sanitized, err := s.phone.Validate(*req.Phone)
		if err != nil {
			return nil, apperror.NewInvalidInput("Invalid phone number")
		}
		user.Phone = models.NewNullString(sanitized)
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"user_id": user.ID}).Info("User registered")
	return s.issueToken(user)
}

// Login verifies credentials and signs a token
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.WithFields(logrus.Fields{"user_id": user.ID}).Warn("Login failed: wrong password")
		return nil, apperror.NewUnauthorized("Wrong password")
	}

	return s.issueToken(user)
}

func (s *UserService) issueToken(user *models.User) (*models.LoginResponse, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "failed to generate token", err)
	}
	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.jwt.Expiry().Seconds()),
		User:      user,
	}, nil
}

// GetProfile returns the user
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}

// UpdateProfile changes name and/or email
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	if req.IsEmpty() {
		return nil, apperror.NewInvalidInput("At least one field (name or email) is required")
	}

	if req.Email != nil && *req.Email != "" {
		taken, err := s.users.EmailTaken(ctx, *req.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.NewConflict("Email already in use by another user")
		}
	}

	return s.users.UpdateProfile(ctx, userID, req.Name, req.Email)
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req models.ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return apperror.NewInvalidInput("New password must be at least 6 characters long")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.NewInvalidInput("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperror.Wrap(apperror.Internal, "failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID}).Info("Password changed")
	return nil
}

// AdminListUsers lists users, optionally by role
func (s *UserService) AdminListUsers(ctx context.Context, roleStr string, page models.PageRequest) ([]models.User, models.Pagination, error) {
	var filter models.UserFilter
	if roleStr != "" {
		role := models.Role(roleStr)
		if role != models.RoleUser && role != models.RoleAdmin {
			return nil, models.Pagination{}, apperror.NewInvalidInput("Invalid role")
		}
		filter.Role = &role
	}

	users, total, err := s.users.ListUsers(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return users, models.NewPagination(page, total), nil
}
