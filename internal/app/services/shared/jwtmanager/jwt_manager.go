package jwtmanager

import (
	"context"
	"fmt"
	"time"

	"fhirhub-service/internal/app/config"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// JWTManager handles token creation and verification for the admin surface
// (manual replay of failed interactions).
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	ttl    time.Duration
}

// CreateTokenInput defines input parameters for token creation.
type CreateTokenInput struct {
	Subject string
}

// CreateTokenOutput contains the signed token string.
type CreateTokenOutput struct {
	Token string
}

// VerifyTokenInput defines parameters for token verification.
type VerifyTokenInput struct {
	Token string
}

// VerifyTokenOutput contains verification result and decoded claims.
type VerifyTokenOutput struct {
	Valid  bool
	Claims map[string]interface{}
}

func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) *JWTManager {
	ttl := time.Duration(cfg.JWT.ExpTimeInHour) * time.Hour
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTManager{
		log:    log,
		secret: []byte(cfg.JWT.Secret),
		ttl:    ttl,
	}
}

func (m *JWTManager) CreateToken(ctx context.Context, input *CreateTokenInput) (*CreateTokenOutput, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": input.Subject,
		"iat": now.Unix(),
		"exp": now.Add(m.ttl).Unix(),
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{Token: tokenString}, nil
}

func (m *JWTManager) VerifyToken(ctx context.Context, input *VerifyTokenInput) (*VerifyTokenOutput, error) {
	parsed, err := jwt.Parse(input.Token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return &VerifyTokenOutput{Valid: false}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return &VerifyTokenOutput{Valid: false}, fmt.Errorf("invalid token claims")
	}
	return &VerifyTokenOutput{
		Valid:  true,
		Claims: claims,
	}, nil
}
