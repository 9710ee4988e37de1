// internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"log/slog"

	"kidney_monitor/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
	BcryptCost        = bcrypt.DefaultCost
)

type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LastName string `json:"last_name"`
	Email    string `json:"email"`
}

type UserService struct {
	db         *gorm.DB
	jwtService *JWTService
}

func NewUserService(db *gorm.DB, jwt *JWTService) *UserService {
	return &UserService{
		db:         db,
		jwtService: jwt,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, errors.New("user with this email already exists")
	}

	hashPassword, err := HashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return nil, errors.New("failed to process password")
	}

	user := &models.User{
		Name:         req.Name,
		LastName:     req.LastName,
		PasswordHash: hashPassword,
		Email:        req.Email,
	}

	if err = s.db.WithContext(ctx).Create(user).Error; err != nil {
		slog.Error("Failed to create user", "error", err, "email", req.Email)
		return nil, errors.New("failed to create user")
	}

	slog.Info("User registered successfully",
		"user_id", user.ID,
		"email", user.Email,
	)

	return user, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("Login attempt with non-existent email", "email", req.Email)
			return nil, errors.New("invalid credentials")
		}
		return nil, err
	}

	if err := CheckPassword(user.PasswordHash, req.Password); err != nil {
		slog.Warn("Invalid password attempt",
			"email", req.Email,
			"user_id", user.ID,
		)
		return nil, errors.New("invalid credentials")
	}

	slog.Info("User logged in successfully",
		"user_id", user.ID,
		"email", user.Email,
	)

	return &user, nil
}

func (s *UserService) RegisterWithTokens(ctx context.Context, req *models.RegisterRequest) (*AuthResponse, error) {
	user, err := s.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.generateAuthResponse(user)
}

func (s *UserService) LoginWithTokens(ctx context.Context, req *models.LoginRequest) (*AuthResponse, error) {
	user, err := s.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	return s.generateAuthResponse(user)
}

func (s *UserService) generateAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	return &AuthResponse{
		User: &UserResponse{
			ID:       user.ID,
			Name:     user.Name,
			LastName: user.LastName,
			Email:    user.Email,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    15 * 60, // 15 минут
	}, nil
}

func (s *UserService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	user, err := s.GetUserByID(context.TODO(), claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	return s.generateAuthResponse(user)
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", errors.New("password too short")
	}
	if len(password) > MaxPasswordLength {
		return "", errors.New("password too long")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

func CheckPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
