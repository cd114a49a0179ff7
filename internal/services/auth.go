package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/anonto42/linkup/backend/internal/repositories"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthResult struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

type AuthService struct {
	users    repositories.UserRepository
	verifier TokenVerifier
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService builds the auth service. verifier may be nil, which turns
// Firebase login off.
func NewAuthService(users repositories.UserRepository, verifier TokenVerifier, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, verifier: verifier, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s: %w", email, ErrConflict)
	} else if !repositories.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username %s: %w", req.Username, ErrConflict)
	} else if !repositories.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{Username: req.Username, Name: req.Name, Email: email, Password: string(hash)}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.result(user)
}

func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (*AuthResult, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.result(user)
}

// FirebaseLogin verifies idToken and signs in the matching account,
// creating or linking it on first use.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	user, err := s.FirebaseUser(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return s.result(user)
}

// FirebaseUser resolves the account behind a Firebase ID token. Lookup is by
// Firebase UID, then by email; an unknown identity gets a new account.
func (s *AuthService) FirebaseUser(ctx context.Context, idToken string) (*models.User, error) {
	if s.verifier == nil {
		return nil, fmt.Errorf("firebase login disabled: %w", ErrNotAuthenticated)
	}
	token, err := s.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", ErrNotAuthenticated)
	}

	uid := token.UID
	email, _ := token.Claims["email"].(string)
	email = strings.ToLower(email)
	name, _ := token.Claims["name"].(string)
	picture, _ := token.Claims["picture"].(string)

	user, err := s.users.GetUserByFirebaseUID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, err
	}

	if email != "" {
		user, err = s.users.GetUserByEmail(ctx, email)
		if err == nil {
			user.FirebaseUID = &uid
			if err := s.users.UpdateUser(ctx, user); err != nil {
				return nil, fmt.Errorf("link firebase account: %w", err)
			}
			return user, nil
		}
		if !repositories.IsNotFound(err) {
			return nil, err
		}
	}

	username, err := s.freeUsername(ctx, usernameBase(email, uid))
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = username
	}
	if email == "" {
		email = uid + "@firebase.local"
	}
	user = &models.User{FirebaseUID: &uid, Email: email, Username: username, Name: name, AvatarURL: picture}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create firebase user: %w", err)
	}
	return user, nil
}

// IssueToken signs an HS256 token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a token issued by IssueToken.
func (s *AuthService) ParseToken(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	return claims, nil
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, User: user.ToProfile()}, nil
}

func (s *AuthService) freeUsername(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; i <= 50; i++ {
		_, err := s.users.GetUserByUsername(ctx, candidate)
		if repositories.IsNotFound(err) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + strconv.Itoa(i)
	}
	return "", fmt.Errorf("username %s: %w", base, ErrConflict)
}

// usernameBase derives an alphanumeric handle from the email's local part,
// falling back to the Firebase UID.
func usernameBase(email, uid string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		local = uid
	}
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
		if b.Len() == 40 {
			break
		}
	}
	if b.Len() < 3 {
		return "user" + b.String()
	}
	return b.String()
}
