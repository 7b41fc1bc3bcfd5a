package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/pkg/auth"
)

func newAuthServiceFixture(t *testing.T) (*AuthService, *MockUserRepoForGamification) {
	t.Helper()
	userRepo := new(MockUserRepoForGamification)
	jwtService, err := auth.NewJWTService("test-secret-key", 1)
	require.NoError(t, err)
	return NewAuthService(userRepo, jwtService), userRepo
}

// ============================================================================
// Register
// ============================================================================

func TestRegister_CreatesStudentWithHashedPassword(t *testing.T) {
	service, userRepo := newAuthServiceFixture(t)

	var created *entity.User
	userRepo.On("Create", mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(0).(*entity.User) }).
		Return(nil)

	user, err := service.Register("ivan", "ivan@example.com", "secret-password")

	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, user.Role)
	require.NotNil(t, created)
	// Пароль хранится только в виде bcrypt-хеша
	assert.NotEqual(t, "secret-password", created.Password)
	assert.True(t, auth.CheckPassword("secret-password", created.Password))
}

func TestRegister_Validation(t *testing.T) {
	service, userRepo := newAuthServiceFixture(t)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"пустое имя", "", "ivan@example.com", "secret-password"},
		{"пустой email", "ivan", "", "secret-password"},
		{"короткий пароль", "ivan", "ivan@example.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(tt.username, tt.email, tt.password)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	userRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, userRepo := newAuthServiceFixture(t)
	userRepo.On("Create", mock.Anything).Return(apperrors.ErrConflict)

	_, err := service.Register("ivan", "taken@example.com", "secret-password")

	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

// ============================================================================
// Login
// ============================================================================

func TestLogin_Success(t *testing.T) {
	service, userRepo := newAuthServiceFixture(t)
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	userRepo.On("GetByEmail", "ivan@example.com").Return(&entity.User{
		ID: 10, Username: "ivan", Email: "ivan@example.com", Password: hash, Role: entity.RoleStudent,
	}, nil)

	token, user, err := service.Login("ivan@example.com", "secret-password")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, uint(10), user.ID)
}

func TestLogin_UniformErrorForBadCredentials(t *testing.T) {
	service, userRepo := newAuthServiceFixture(t)
	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	userRepo.On("GetByEmail", "ivan@example.com").Return(&entity.User{
		ID: 10, Email: "ivan@example.com", Password: hash,
	}, nil)
	userRepo.On("GetByEmail", "unknown@example.com").Return(nil, apperrors.ErrNotFound)

	// Неизвестный email и неверный пароль неразличимы снаружи
	_, _, errUnknown := service.Login("unknown@example.com", "secret-password")
	_, _, errWrongPass := service.Login("ivan@example.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, errWrongPass, apperrors.ErrUnauthorized)
}

// ============================================================================
// Токен содержит клеймы пользователя
// ============================================================================

func TestLogin_TokenCarriesClaims(t *testing.T) {
	jwtService, err := auth.NewJWTService("test-secret-key", 1)
	require.NoError(t, err)
	userRepo := new(MockUserRepoForGamification)
	service := NewAuthService(userRepo, jwtService)

	hash, err := auth.HashPassword("secret-password")
	require.NoError(t, err)
	userRepo.On("GetByEmail", "admin@example.com").Return(&entity.User{
		ID: 7, Email: "admin@example.com", Password: hash, Role: entity.RoleAdmin,
	}, nil)

	token, _, err := service.Login("admin@example.com", "secret-password")
	require.NoError(t, err)

	claims, err := jwtService.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}
