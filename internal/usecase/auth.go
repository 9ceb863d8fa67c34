package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const defaultSessionTTL = 24 * time.Hour

const googleIssuer = "https://accounts.google.com"

// GoogleProfile is the subset of ID-token claims we keep.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IDTokenVerifier is the subset of the OIDC verifier the usecase needs.
// Defined here (point of use) so tests can inject a fake.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error)
}

// NewGoogleVerifier discovers Google's OIDC configuration and returns a
// verifier bound to our client ID.
func NewGoogleVerifier(ctx context.Context, clientID string) (IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, fmt.Errorf("discover google oidc: %w", err)
	}
	return &googleVerifier{inner: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

type googleVerifier struct {
	inner *oidc.IDTokenVerifier
}

func (v *googleVerifier) Verify(ctx context.Context, rawIDToken string) (*GoogleProfile, error) {
	idToken, err := v.inner.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode id token claims: %w", err)
	}

	return &GoogleProfile{
		Subject: idToken.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

type AuthUsecase struct {
	users      repository.UserRepository
	verifier   IDTokenVerifier
	jwtKey     []byte
	sessionTTL time.Duration
}

func NewAuthUsecase(users repository.UserRepository, verifier IDTokenVerifier, jwtKey []byte) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		verifier:   verifier,
		jwtKey:     jwtKey,
		sessionTTL: defaultSessionTTL,
	}
}

// Login verifies a Google ID token, upserts the user, and returns a
// signed session JWT alongside the stored profile.
func (u *AuthUsecase) Login(ctx context.Context, rawIDToken string) (string, *domain.User, error) {
	profile, err := u.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", nil, err
	}

	user, err := u.users.Upsert(ctx, &domain.User{
		ID:      profile.Subject,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	})
	if err != nil {
		return "", nil, fmt.Errorf("upsert user: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(u.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign session jwt: %w", err)
	}
	return signed, user, nil
}

// SessionTTL exposes the cookie lifetime for the handler's Max-Age.
func (u *AuthUsecase) SessionTTL() time.Duration {
	return u.sessionTTL
}

// ParseSession validates a session JWT and returns the decoded session.
func ParseSession(raw string, jwtKey []byte) (*domain.Session, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, domain.ErrTokenInvalid
	}

	s := &domain.Session{UserID: sub}
	if email, ok := claims["email"].(string); ok {
		s.Email = email
	}
	if iat, ok := claims["iat"].(float64); ok {
		s.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		s.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return s, nil
}
