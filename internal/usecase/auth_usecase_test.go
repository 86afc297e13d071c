package usecase

import (
	"context"
	"testing"

	"catering/internal/domain/model"
	repo "catering/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(users, "test-secret")

	users.On("FindByEmail", mock.Anything, "mgr@bob.com").Return(model.User{
		Email:        "mgr@bob.com",
		PasswordHash: hashOf(t, "pass1234"),
		Role:         model.RoleManager,
		IsActive:     true,
	}, nil)

	out, err := uc.Login(context.Background(), "Mgr@Bob.com", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, string(model.RoleManager), out.Role)
	assert.Equal(t, 900, out.ExpiresIn)

	//発行したトークンからsubとroleが読める
	token, err := jwt.Parse(out.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "mgr@bob.com", claims["sub"])
	assert.Equal(t, string(model.RoleManager), claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(users, "test-secret")

	users.On("FindByEmail", mock.Anything, "mgr@bob.com").Return(model.User{
		Email:        "mgr@bob.com",
		PasswordHash: hashOf(t, "pass1234"),
		Role:         model.RoleManager,
		IsActive:     true,
	}, nil)

	_, err := uc.Login(context.Background(), "mgr@bob.com", "wrong")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}

func TestLogin_UnknownUserSameResponse(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(users, "test-secret")

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, repo.ErrNotFound)

	//存在しないユーザーもパスワード違いと同じ401
	_, err := uc.Login(context.Background(), "nobody@example.com", "whatever")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	users := new(UserRepoMock)
	uc := NewAuthUsecase(users, "test-secret")

	users.On("FindByEmail", mock.Anything, "old@example.com").Return(model.User{
		Email:        "old@example.com",
		PasswordHash: hashOf(t, "pass1234"),
		Role:         model.RoleCustomer,
		IsActive:     false,
	}, nil)

	_, err := uc.Login(context.Background(), "old@example.com", "pass1234")
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 401, he.Status)
}
