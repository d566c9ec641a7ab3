package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gestionale/internal/models"
	"gestionale/internal/repositories"
	"gestionale/internal/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	users   UserStore
	tokens  *utils.TokenManager
	revoker TokenRevoker
	log     *zap.Logger
	now     Clock
}

func NewAuthService(users UserStore, tokens *utils.TokenManager, revoker TokenRevoker, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		log:     log,
		now:     time.Now,
	}
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// RegistrationOpen reports whether an anonymous caller may register, which
// is only the case before the first operator exists.
func (s *AuthService) RegistrationOpen(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return n == 0, nil
}

// Register creates an operator. Once an operator exists only an
// authenticated caller can add more.
func (s *AuthService) Register(ctx context.Context, creds Credentials, authenticated bool) (*models.User, error) {
	if !authenticated {
		open, err := s.RegistrationOpen(ctx)
		if err != nil {
			return nil, err
		}
		if !open {
			return nil, fmt.Errorf("%w: registrazione riservata agli operatori", ErrUnauthorized)
		}
	}
	if len(creds.Password) < 8 {
		return nil, invalid("la password deve avere almeno 8 caratteri")
	}

	user := &models.User{Email: creds.Email}
	user.Prepare()
	if user.Email == "" {
		return nil, invalid("email obbligatoria")
	}

	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, conflict("utente già registrato")
	}

	hash, err := utils.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if authenticated {
		err = s.users.Create(ctx, user)
	} else {
		// The open check above is advisory; CreateFirst settles concurrent
		// bootstrap attempts.
		var created bool
		created, err = s.users.CreateFirst(ctx, user)
		if err == nil && !created {
			return nil, fmt.Errorf("%w: registrazione riservata agli operatori", ErrUnauthorized)
		}
	}
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, conflict("utente già registrato")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, creds Credentials) (*models.User, *utils.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, nil, fmt.Errorf("%w: credenziali non valide", ErrUnauthorized)
	}
	if err := utils.VerifyPassword(user.PasswordHash, creds.Password); err != nil {
		return nil, nil, fmt.Errorf("%w: credenziali non valide", ErrUnauthorized)
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to update last login", zap.Error(err), zap.Stringer("user_id", user.ID))
	} else {
		user.LastLoginAt = &now
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new pair and revokes the
// old one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token mancante", ErrUnauthorized)
	}
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, _ := claims.UserID()
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: utente non trovato", ErrUnauthorized)
	}

	// Only the caller that revokes the old jti gets a new pair.
	first, err := s.revoke(ctx, claims)
	if err != nil {
		return nil, err
	}
	if !first {
		return nil, fmt.Errorf("%w: refresh token già utilizzato", ErrUnauthorized)
	}
	return s.tokens.Issue(user.ID)
}

// Authenticate validates an access token for the middleware.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*utils.Claims, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Logout revokes the session identified by the access token claims.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil {
		return ErrUnauthorized
	}
	_, err := s.revoke(ctx, claims)
	return err
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *utils.Claims) error {
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return fmt.Errorf("%w: sessione terminata", ErrUnauthorized)
	}
	return nil
}

// revoke blacklists the jti for as long as the refresh token of the same
// pair could still be presented. It reports whether this call revoked it.
func (s *AuthService) revoke(ctx context.Context, claims *utils.Claims) (bool, error) {
	ttl := utils.RefreshTokenDuration
	if claims.IssuedAt != nil {
		ttl = claims.IssuedAt.Add(utils.RefreshTokenDuration).Sub(s.now())
	}
	if ttl <= 0 {
		return false, nil
	}
	first, err := s.revoker.Revoke(ctx, claims.ID, ttl)
	if err != nil {
		return false, fmt.Errorf("failed to revoke token: %w", err)
	}
	return first, nil
}
