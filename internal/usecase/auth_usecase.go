package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	repo "catering/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 15 * time.Minute

type AuthUsecase struct {
	users  repo.UserRepository
	secret []byte
}

func NewAuthUsecase(users repo.UserRepository, jwtSecret string) *AuthUsecase {
	return &AuthUsecase{users: users, secret: []byte(jwtSecret)}
}

type LoginOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Role        string `json:"role"`
}

func (u *AuthUsecase) Login(ctx context.Context, email string, password string) (LoginOutput, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err == repo.ErrNotFound {
		//存在しないユーザーでも同じ応答にする
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := time.Now()
	expiresAt := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.Email,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(u.secret)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return LoginOutput{
		AccessToken: signed,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
		Role:        string(user.Role),
	}, nil
}
