package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// Manager 会话Token管理器
// 设计说明：
// 1. 商城不做账号体系，访客首次访问即签发匿名会话Token
// 2. Token只承载SessionID，用于把购物车、筛选条件、主题偏好等
//    持久化槽位关联到同一个访客
// 3. HMAC签名防止客户端伪造他人的SessionID
type Manager struct {
	secret string        // 签名密钥
	expire time.Duration // 会话Token有效期
}

// NewManager 创建会话Token管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expire: expire,
	}
}

// Claims 会话Claims
// 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf等）
type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateToken 为指定SessionID签发Token
func (m *Manager) GenerateToken(sessionID string) (string, error) {
	now := time.Now()

	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "bookshop",
			Subject:   sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "生成会话Token失败")
	}

	return tokenString, nil
}

// ParseToken 解析并验证Token，返回SessionID
// 验证内容：签名、过期时间（exp）、生效时间（nbf）
func (m *Manager) ParseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.SessionID, nil
}

// Expire 返回会话有效期（用于Cookie的MaxAge）
func (m *Manager) Expire() time.Duration {
	return m.expire
}
