package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
)

// AccountService implements registration, login and profiles for the local
// contract server. Tokens are HS256 JWTs whose subject is the account id.
type AccountService struct {
	repo        ports.AccountRepository
	revocations ports.RevocationStore
	jwtSecret   []byte
	tokenTTL    time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

func NewAccountService(repo ports.AccountRepository, revocations ports.RevocationStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AccountService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AccountService{
		repo:        repo,
		revocations: revocations,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		log:         log.With().Str("component", "accounts").Logger(),
		now:         time.Now,
	}
}

var _ ports.AccountService = (*AccountService)(nil)

func (s *AccountService) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
		Extra:        withoutReserved(in.Extra),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", account.ID).Msg("account registered")
	return s.issue(account)
}

func (s *AccountService) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(creds.Email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(creds.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(account)
}

// ResetPassword never reveals whether the address is registered.
func (s *AccountService) ResetPassword(ctx context.Context, email string) error {
	account, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		s.log.Info().Msg("password reset requested for unknown address")
		return nil
	case err != nil:
		return err
	}
	s.log.Info().Str("user_id", account.ID).Msg("password reset link issued")
	return nil
}

// Logout revokes token for the rest of its lifetime.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, token, ttl)
}

func (s *AccountService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	revoked, err := s.revocations.IsRevoked(ctx, token)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	account, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return account.Profile(), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, in domain.ProfileInput) (*domain.UserProfile, error) {
	account, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		account.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" && email != account.Email {
		other, err := s.repo.FindByEmail(ctx, email)
		switch {
		case err == nil && other.ID != account.ID:
			return nil, domain.ErrUserExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
		account.Email = email
	}
	for k, v := range withoutReserved(in.Extra) {
		if account.Extra == nil {
			account.Extra = make(map[string]any)
		}
		account.Extra[k] = v
	}
	account.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account.Profile(), nil
}

func (s *AccountService) issue(account *domain.Account) (*domain.AuthResponse, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   account.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: signed, User: account.Profile()}, nil
}

func (s *AccountService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// withoutReserved drops fields the server owns so clients cannot overwrite them.
func withoutReserved(extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		switch k {
		case "id", "createdAt", "updatedAt", "password":
			continue
		}
		out[k] = v
	}
	return out
}
