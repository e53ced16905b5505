package auth

import (
	"errors"
	"fmt"
	"time"

	"tmf-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken は無効なトークンエラー
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoSecret は署名鍵が未設定のエラー
	ErrNoSecret = errors.New("jwt secret is not configured")
)

// Service はHS256トークンの発行と検証を行う
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService は新しい認証サービスを作成
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueToken は subject 向けのトークンを生成
func (s *Service) IssueToken(subject string, scopes []string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}

	now := s.now()
	claims := &model.JWTClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken はJWTトークンを検証して呼び出し元を返す
func (s *Service) ValidateToken(tokenString string) (*model.Caller, error) {
	if len(s.secret) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &model.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &model.Caller{
		Subject: claims.Subject,
		Scopes:  claims.Scopes,
	}, nil
}
