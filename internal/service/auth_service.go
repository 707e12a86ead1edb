package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chiaobuy/liango/internal/config"
	"github.com/chiaobuy/liango/internal/middleware"
)

// AuthService 单操作员登录（整套系统只有卖家一个账号）
type AuthService struct {
	authCfg config.AuthConfig
	jwtCfg  config.JWTConfig
}

func NewAuthService(authCfg config.AuthConfig, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{authCfg: authCfg, jwtCfg: jwtCfg}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *AuthService) Login(req LoginRequest) (*LoginResponse, error) {
	if s.authCfg.OperatorPassword == "" {
		return nil, fmt.Errorf("未配置操作员密码，拒绝登录")
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.authCfg.OperatorPassword)) != 1 {
		return nil, fmt.Errorf("密码错误")
	}

	name := s.authCfg.OperatorName
	if name == "" {
		name = "operator"
	}

	now := time.Now()
	expire := s.jwtCfg.AccessTokenExpire
	if expire <= 0 {
		expire = 168 * time.Hour
	}
	expiresAt := now.Add(expire)

	claims := middleware.JWTClaims{
		UserID: "operator",
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("签发令牌失败: %w", err)
	}
	return &LoginResponse{Token: signed, Name: name, ExpiresAt: expiresAt}, nil
}
