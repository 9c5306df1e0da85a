package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flexapp/flex-api/internal/domain"
	"flexapp/flex-api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrHashingFailed      = errors.New("failed to hash password")
	ErrTokenGeneration    = errors.New("failed to generate access token")

	// Token verification failures. Distinct values for diagnostics; the API
	// layer collapses all of them into a single 401 response.
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenSignature      = errors.New("token signature is invalid")
	ErrTokenMalformed      = errors.New("token is malformed")
	ErrTokenMissingSubject = errors.New("token has no subject claim")
)

// AuthService handles registration, credential checks, and the token
// issue/verify lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, email, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, err error)
	CurrentUser(ctx context.Context, username string) (*domain.User, error)
	IssueToken(subject string, ttl time.Duration) (string, error)
	VerifyToken(raw string) (subject string, err error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     []byte
	signingMethod jwt.SigningMethod
	jwtExpiration time.Duration
}

// NewAuthService creates a new AuthService. The secret and algorithm are
// fixed for the process lifetime; only HMAC algorithms are accepted.
func NewAuthService(userRepo repository.UserRepository, jwtSecret, jwtAlgorithm string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty")
	}
	method := jwt.GetSigningMethod(jwtAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		panic(fmt.Sprintf("unsupported JWT algorithm %q", jwtAlgorithm))
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 30 * time.Minute
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     []byte(jwtSecret),
		signingMethod: method,
		jwtExpiration: jwtExpiration,
	}
}

// Register creates a new account with a bcrypt-hashed password. Uniqueness
// is enforced by the store's unique index, not a check-then-insert, so
// concurrent registrations of the same username resolve to exactly one
// winner.
func (s *authService) Register(ctx context.Context, username, email, password, fullName string) (*domain.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, errors.New("username, email, and password cannot be empty")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Login verifies credentials and returns a signed access token. Unknown
// username and wrong password produce the same error so the response never
// reveals which half was wrong.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(user.Username, s.jwtExpiration)
	if err != nil {
		return "", ErrTokenGeneration
	}
	return token, nil
}

// CurrentUser resolves a token subject back to the stored account. Going
// through the store means a live token for a deleted user stops working.
func (s *authService) CurrentUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// IssueToken signs a claim set {sub, exp, iat} for the subject. Pure aside
// from reading the clock and the process-wide secret.
func (s *authService) IssueToken(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject cannot be empty")
	}
	if ttl <= 0 {
		ttl = s.jwtExpiration
	}

	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(s.signingMethod, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// VerifyToken checks signature and expiry and returns the subject. The
// returned errors stay internal; callers present them uniformly as an
// unauthorized outcome.
func (s *authService) VerifyToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return "", ErrTokenSignature
	}
	if claims.Subject == "" {
		return "", ErrTokenMissingSubject
	}
	return claims.Subject, nil
}
