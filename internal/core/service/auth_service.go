package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
	"github.com/jpbaz28/Banking-API/internal/core/repository"
)

const (
	AuthCodeTTL   = 10 * time.Minute
	TokenTTL      = time.Hour
	BcryptCost    = 10
	TokenIssuer   = "bankapi"
	ScopeAll      = "all"
	SubjectUser   = "user"
	SubjectClient = "credential"
)

type AuthService struct {
	userRepo       repository.UserRepository
	credentialRepo repository.CredentialRepository
	authCodeRepo   repository.AuthCodeRepository
	jwtSecret      string
	jwtAlgorithm   string
}

func NewAuthService(
	userRepo repository.UserRepository,
	credentialRepo repository.CredentialRepository,
	authCodeRepo repository.AuthCodeRepository,
	jwtSecret string,
	jwtAlgorithm string,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		credentialRepo: credentialRepo,
		authCodeRepo:   authCodeRepo,
		jwtSecret:      jwtSecret,
		jwtAlgorithm:   jwtAlgorithm,
	}
}

// HashPassword hashes a password or credential secret using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func errInvalidCredentials() error {
	return domain.NewError(domain.KindInvalidInput, "invalid credentials")
}

// AuthorizeUser checks an operator's password and issues a single-use auth code
func (s *AuthService) AuthorizeUser(ctx context.Context, username, password string) (*domain.AuthCode, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, storeError(err, "failed to look up user")
	}

	if !s.VerifyPassword(password, user.Password) {
		return nil, errInvalidCredentials()
	}

	authCode := domain.NewAuthCode(username, []string{ScopeAll}, AuthCodeTTL)
	if err := s.authCodeRepo.Create(ctx, authCode); err != nil {
		return nil, storeError(err, "failed to create auth code")
	}

	return authCode, nil
}

// ExchangeAuthCode trades an auth code for a JWT. Codes are single use.
func (s *AuthService) ExchangeAuthCode(ctx context.Context, code string) (string, error) {
	authCode, err := s.authCodeRepo.FindByCode(ctx, code)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return "", domain.NewError(domain.KindInvalidInput, "invalid auth code")
		}
		return "", storeError(err, "failed to look up auth code")
	}

	// Only the exchange whose delete removed the row may mint a token
	if err := s.authCodeRepo.Delete(ctx, code); err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return "", domain.NewError(domain.KindInvalidInput, "invalid auth code")
		}
		return "", storeError(err, "failed to consume auth code")
	}

	if authCode.IsExpired() {
		return "", domain.NewError(domain.KindInvalidInput, "auth code expired")
	}

	return s.generateJWT(authCode.Username, SubjectUser, authCode.Scopes)
}

// AuthenticateCredential handles the client_credentials grant
func (s *AuthService) AuthenticateCredential(ctx context.Context, id, secret string) (string, error) {
	credential, err := s.credentialRepo.FindByID(ctx, id)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return "", errInvalidCredentials()
		}
		return "", storeError(err, "failed to look up credential")
	}

	if !s.VerifyPassword(secret, credential.Secret) {
		return "", errInvalidCredentials()
	}

	return s.generateJWT(id, SubjectClient, credential.Scopes)
}

// ValidateToken validates a JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(TokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

func (s *AuthService) signingMethod() jwt.SigningMethod {
	switch s.jwtAlgorithm {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

func (s *AuthService) generateJWT(subject, subjectType string, scopes []string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		SubjectType: subjectType,
		Scopes:      scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    TokenIssuer,
		},
	}

	token := jwt.NewWithClaims(s.signingMethod(), claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// CreateUser hashes password and stores a new operator
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "username and password are required")
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := domain.NewUser(username, hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "failed to create user")
	}
	return user, nil
}

func (s *AuthService) UpdateUserPassword(ctx context.Context, username, password string) error {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return storeError(err, "failed to find user")
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}
	user.SetPassword(hash)
	return storeError(s.userRepo.Update(ctx, user), "failed to update user")
}

func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	return storeError(s.userRepo.Delete(ctx, username), "failed to delete user")
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list users")
	}
	return users, nil
}

// CreateCredential stores a new machine credential and returns it with the
// plaintext secret, which is not recoverable afterwards.
func (s *AuthService) CreateCredential(ctx context.Context, label string, scopes []string) (*domain.Credential, string, error) {
	secret := uuid.New().String()
	hash, err := s.HashPassword(secret)
	if err != nil {
		return nil, "", err
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeAll}
	}
	credential := domain.NewCredential(label, hash, scopes)
	if err := s.credentialRepo.Create(ctx, credential); err != nil {
		return nil, "", storeError(err, "failed to create credential")
	}
	return credential, secret, nil
}

// UpdateCredential changes label and scopes. Nil arguments leave the field as is.
func (s *AuthService) UpdateCredential(ctx context.Context, id string, label *string, scopes []string) (*domain.Credential, error) {
	credential, err := s.credentialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to find credential")
	}
	if label != nil {
		credential.Label = *label
	}
	if scopes != nil {
		credential.Scopes = scopes
	}
	credential.UpdatedAt = time.Now().UTC()
	if err := s.credentialRepo.Update(ctx, credential); err != nil {
		return nil, storeError(err, "failed to update credential")
	}
	return credential, nil
}

func (s *AuthService) DeleteCredential(ctx context.Context, id string) error {
	return storeError(s.credentialRepo.Delete(ctx, id), "failed to delete credential")
}

func (s *AuthService) ListCredentials(ctx context.Context) ([]*domain.Credential, error) {
	credentials, err := s.credentialRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list credentials")
	}
	return credentials, nil
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	SubjectType string   `json:"sub_type"` // "user" or "credential"
	Scopes      []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope, or everything
func (c *TokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == ScopeAll || s == scope {
			return true
		}
	}
	return false
}
