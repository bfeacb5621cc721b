package token

import (
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/jwt"

	"StampCard/config"
	"StampCard/pkg/errors"
)

// IdentityKey JWT claim 里放 public_id 的字段名，middleware 与这里共用
const IdentityKey = "uid"

var generator *jwt.HertzJWTMiddleware

func Init() error {
	g, err := jwt.New(&jwt.HertzJWTMiddleware{
		Key:         []byte(config.Cfg.JWTSecret),
		Timeout:     accessTTL(),
		MaxRefresh:  refreshTTL(),
		IdentityKey: IdentityKey,
		TimeFunc:    time.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token generator: %w", err)
	}

	generator = g
	return nil
}

// GetGenerator 暴露给 auth middleware，保证双方同 key 同 claim 配置
func GetGenerator() *jwt.HertzJWTMiddleware {
	return generator
}

func accessTTL() time.Duration {
	return time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute
}

func refreshTTL() time.Duration {
	return time.Duration(config.Cfg.JWTRefreshDays) * 24 * time.Hour
}

func sign(claims jwtv5.MapClaims) (string, error) {
	t := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return t.SignedString([]byte(config.Cfg.JWTSecret))
}

// GenerateTokenPair 签发一对 token：短命的 access 和带 type=refresh 标记的 refresh
func GenerateTokenPair(userID string) (accessToken, refreshToken string, expiresIn int, err error) {
	if generator == nil {
		return "", "", 0, errors.ErrTokenGeneratorNotInitialized
	}

	now := time.Now()
	accessExp := now.Add(accessTTL())

	accessToken, err = sign(jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"exp":       accessExp.Unix(),
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err = sign(jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"exp":       now.Add(refreshTTL()).Unix(),
		"type":      "refresh",
	})
	if err != nil {
		return "", "", 0, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresIn = int(time.Until(accessExp).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	return accessToken, refreshToken, expiresIn, nil
}

// ValidateRefreshToken 校验 refresh token 签名和 type 标记，返回其中的用户 ID。
// access token 拿来刷新会被 type 检查挡掉
func ValidateRefreshToken(tokenString string) (string, error) {
	parsed, err := jwtv5.ParseWithClaims(tokenString, jwtv5.MapClaims{}, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("%w: %v, expected HS256", errors.ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return []byte(config.Cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", errors.ErrInvalidTokenClaims
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return "", errors.ErrInvalidTokenType
	}

	uid, ok := claims[IdentityKey].(string)
	if !ok {
		return "", errors.ErrInvalidTokenClaims
	}
	return uid, nil
}
