package service

import (
	"fmt"
	"log"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и входа
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register регистрирует нового пользователя с ролью студента
func (s *AuthService) Register(username, email, password string) (*entity.User, error) {
	if username == "" || email == "" || len(password) < 8 {
		return nil, fmt.Errorf("username, email and password (min 8 chars) are required: %w", apperrors.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: hash,
		Role:     entity.RoleStudent,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь %d (%s)", user.ID, user.Email)
	return user, nil
}

// Login проверяет учётные данные и возвращает подписанный токен
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Не раскрываем, существует ли email
		return "", nil, apperrors.ErrUnauthorized
	}
	if !auth.CheckPassword(password, user.Password) {
		return "", nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}
