package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"ecomstore/internal/auth"
	"ecomstore/internal/model"
	"ecomstore/internal/repository"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordLen = 72

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type TokenIssuer interface {
	Issue(u model.User) (string, error)
}

type AuthService struct {
	store  UserStore
	tokens TokenIssuer
}

func NewAuthService(store UserStore, tokens TokenIssuer) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Signup registers a regular user. Admins are never created here.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, invalid("All fields are required")
	}
	if !validEmail(email) {
		return nil, invalid("email is not valid")
	}
	if len(password) > maxPasswordLen {
		return nil, invalid("password must be at most %d bytes", maxPasswordLen)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleUser,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			err = &ConflictError{Msg: "email is already registered"}
		}
		failure(err).Str("email", email).Msg("signup failed")
		return nil, err
	}

	log.Info().Int("user_id", u.ID).Msg("user registered")
	return u, nil
}

// Login checks the credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", invalid("Email and password are required")
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		log.Error().Err(err).Msg("login lookup failed")
		return nil, "", err
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(*u)
	if err != nil {
		log.Error().Err(err).Int("user_id", u.ID).Msg("issue token failed")
		return nil, "", err
	}
	return u, token, nil
}

// Emails are stored and looked up lower-cased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare addr-spec with a dotted domain. Display-name
// forms such as "Ann <ann@example.com>" are rejected.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	domain := email[strings.LastIndexByte(email, '@')+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}
