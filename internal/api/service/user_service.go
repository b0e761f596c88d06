package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tictacroom/internal/api/models"
	"tictacroom/internal/api/repository"
)

// ErrInvalidCredentials is returned on a failed login; it deliberately
// does not distinguish an unknown username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrUsernameTaken is returned when registering an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// UserService is the identity provider: it registers users, exchanges
// credentials for bearer tokens, and verifies tokens back into a
// username at the connection boundary.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	GuestLogin(ctx context.Context) (string, string, error)
	Verify(token string) (string, error)
	ListUsernames(ctx context.Context) ([]string, error)
}

type userService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService creates a UserService signing tokens with the given
// secret.
func NewUserService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration) UserService {
	return &userService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// Register handles user registration.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) error {
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existingUser != nil {
		return ErrUsernameTaken
	}

	user := &models.User{
		Username: req.Username,
	}

	return s.userRepo.CreateUser(ctx, user, req.Password)
}

// Login handles user login and returns a signed JWT on success.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.signToken(user.ID, user.Username)
}

// GuestLogin mints a throwaway username and signs a token for it, so a
// guest can open a websocket session without registering.
func (s *userService) GuestLogin(ctx context.Context) (string, string, error) {
	username := "guest-" + uuid.New().String()[:8]

	token, err := s.signToken(0, username)
	if err != nil {
		return "", "", err
	}

	return username, token, nil
}

func (s *userService) signToken(userID int64, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"un":  username,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})

	return token.SignedString(s.jwtSecret)
}

// Verify parses and validates a bearer token, returning the username it
// was issued to.
func (s *userService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	username, ok := claims["un"].(string)
	if !ok || username == "" {
		return "", errors.New("token has no username claim")
	}

	return username, nil
}

// ListUsernames returns every registered username.
func (s *userService) ListUsernames(ctx context.Context) ([]string, error) {
	return s.userRepo.ListUsernames(ctx)
}
