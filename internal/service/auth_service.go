package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"clinic-admin/internal/metrics"
	"clinic-admin/internal/model"
	"clinic-admin/pkg/apierror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	ActionLogin       = "login"
	ActionRefresh     = "refresh"
	ActionLogout      = "logout"
	ActionTokenReplay = "refresh_token_reuse"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	FindByID(ctx context.Context, id string) (model.Account, error)
}

type TokenStore interface {
	Store(ctx context.Context, tokenID string, userID string, issuedAt time.Time, expiresAt time.Time) error
	Validate(ctx context.Context, tokenID string, now time.Time) (string, error)
	Revoke(ctx context.Context, tokenID string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	CleanExpired(ctx context.Context, now time.Time) (int64, error)
}

type ActivityStore interface {
	Log(ctx context.Context, entry model.Activity) error
	List(ctx context.Context, userID string, limit int) ([]model.Activity, error)
}

type AuthService struct {
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      UserStore
	tokens     TokenStore
	activity   ActivityStore
	now        func() time.Time
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, users UserStore, tokens TokenStore, activity ActivityStore) (*AuthService, error) {
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret is required")
	}

	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
		activity:   activity,
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// SetClock replaces the time source for issuing and validating tokens.
func (s *AuthService) SetClock(now func() time.Time) {
	s.now = now
}

var errInvalidCredentials = apierror.Wrap(model.ErrInvalidCredentials, "UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized)

func (s *AuthService) Login(ctx context.Context, email string, password string, clientIP string) (model.IssuedTokens, error) {
	account, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.IssuedTokens{}, errInvalidCredentials
	}
	if err != nil {
		return model.IssuedTokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return model.IssuedTokens{}, errInvalidCredentials
	}

	issued, err := s.issueTokenPair(ctx, account)
	if err != nil {
		return model.IssuedTokens{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues(ActionLogin).Inc()
	s.record(ctx, account.ID, ActionLogin, clientIP)
	return issued, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued. Presenting an already revoked but otherwise valid token
// revokes every session of its owner.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, clientIP string) (model.IssuedTokens, error) {
	claims, err := s.ValidateToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return model.IssuedTokens{}, err
	}

	ownerID, err := s.tokens.Validate(ctx, claims.TokenID, s.now())
	if errors.Is(err, model.ErrTokenNotFound) {
		slog.Warn("revoked refresh token presented; revoking all sessions", "user_id", claims.UserID)
		if revokeErr := s.tokens.RevokeAllForUser(ctx, claims.UserID); revokeErr != nil {
			slog.Error("failed to revoke sessions", "user_id", claims.UserID, "error", revokeErr)
		}
		s.record(ctx, claims.UserID, ActionTokenReplay, clientIP)
		return model.IssuedTokens{}, apierror.Wrap(model.ErrTokenNotFound, "UNAUTHORIZED", "refresh token is invalid", http.StatusUnauthorized)
	}
	if err != nil {
		return model.IssuedTokens{}, err
	}
	if ownerID != claims.UserID {
		return model.IssuedTokens{}, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "refresh token is invalid", http.StatusUnauthorized)
	}

	if err := s.tokens.Revoke(ctx, claims.TokenID); err != nil {
		return model.IssuedTokens{}, err
	}

	account, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.IssuedTokens{}, apierror.Wrap(model.ErrUserNotFound, "UNAUTHORIZED", "user not found", http.StatusUnauthorized)
	}
	if err != nil {
		return model.IssuedTokens{}, err
	}

	issued, err := s.issueTokenPair(ctx, account)
	if err != nil {
		return model.IssuedTokens{}, err
	}

	metrics.TokensIssuedTotal.WithLabelValues(ActionRefresh).Inc()
	s.record(ctx, account.ID, ActionRefresh, clientIP)
	return issued, nil
}

// Logout revokes the refresh token if it is one of ours. It never fails:
// an absent or invalid token has nothing to revoke.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, clientIP string) {
	if refreshToken == "" {
		return
	}

	claims, err := s.ValidateToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return
	}

	if err := s.tokens.Revoke(ctx, claims.TokenID); err != nil {
		slog.Warn("failed to revoke refresh token on logout", "user_id", claims.UserID, "error", err)
	}
	s.record(ctx, claims.UserID, ActionLogout, clientIP)
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apierror.Wrap(model.ErrTokenExpired, "UNAUTHORIZED", "token expired", http.StatusUnauthorized)
		}
		return nil, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "invalid token", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "invalid token claims", http.StatusUnauthorized)
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "invalid token type", http.StatusUnauthorized)
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" || claims.TokenID == "" {
		return nil, apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "invalid token subject", http.StatusUnauthorized)
	}

	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	account, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return account.Identity(), nil
}

func (s *AuthService) Activity(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	return s.activity.List(ctx, userID, limit)
}

func (s *AuthService) CleanupExpired(ctx context.Context) {
	removed, err := s.tokens.CleanExpired(ctx, s.now())
	if err != nil {
		slog.Warn("refresh token cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("cleaned up expired refresh tokens", "count", removed)
	}
}

// StartCleanupTicker runs CleanupExpired on a regular interval until ctx is cancelled.
func (s *AuthService) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CleanupExpired(ctx)
		}
	}
}

func (s *AuthService) issueTokenPair(ctx context.Context, account model.Account) (model.IssuedTokens, error) {
	now := s.now()
	refreshJTI := uuid.NewString()
	refreshExpires := now.Add(s.refreshTTL)

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"role":  account.Role,
		"typ":   tokenTypeAccess,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.IssuedTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub": account.ID,
		"typ": tokenTypeRefresh,
		"jti": refreshJTI,
		"iat": now.Unix(),
		"exp": refreshExpires.Unix(),
	})
	if err != nil {
		return model.IssuedTokens{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.tokens.Store(ctx, refreshJTI, account.ID, now, refreshExpires); err != nil {
		return model.IssuedTokens{}, err
	}

	user := account.Identity()
	return model.IssuedTokens{
		AuthResponse: model.AuthResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   int64(s.accessTTL.Seconds()),
			User:        &user,
		},
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExpires,
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// record never fails the request it describes.
func (s *AuthService) record(ctx context.Context, userID string, action string, clientIP string) {
	err := s.activity.Log(ctx, model.Activity{
		ID:         uuid.NewString(),
		UserID:     userID,
		Action:     action,
		ClientIP:   clientIP,
		OccurredAt: s.now(),
	})
	if err != nil {
		slog.Warn("failed to record activity", "user_id", userID, "action", action, "error", err)
	}
}
