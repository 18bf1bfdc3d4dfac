package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/pkg/jwt"
	"github.com/xiebiao/bookshop/pkg/response"
)

// sessionIDKey Context中会话ID的键
const sessionIDKey = "session_id"

// SessionTokenHeader 新签发的会话Token通过该响应头返回
const SessionTokenHeader = "X-Session-Token"

// SessionMiddleware 匿名会话中间件
//
// 设计说明：书城没有账号体系，购物车、筛选条件、主题都挂在
// 匿名会话上。客户端首次访问拿不到Token，中间件当场签发一个
// 并通过响应头返回；之后客户端带Token访问，同一会话的状态
// 在7天内保持。Token过期或非法时静默签发新会话，而不是报错：
// 对访客商城来说"重新开始"好于"请重新登录"。
type SessionMiddleware struct {
	jwtManager *jwt.Manager
	log        *zap.Logger
}

// NewSessionMiddleware 创建会话中间件
func NewSessionMiddleware(jwtManager *jwt.Manager, log *zap.Logger) *SessionMiddleware {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionMiddleware{jwtManager: jwtManager, log: log}
}

// Attach 解析或签发会话，并注入Context
func (m *SessionMiddleware) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := m.resolveSession(c)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// resolveSession 从请求解析会话ID；解析失败时签发新会话
func (m *SessionMiddleware) resolveSession(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if sessionID, err := m.jwtManager.ParseToken(parts[1]); err == nil {
				return sessionID
			}
		}
	}

	// 签发新会话
	sessionID := uuid.NewString()
	token, err := m.jwtManager.GenerateToken(sessionID)
	if err != nil {
		// 签发失败也不中断请求：会话退化为一次性的
		m.log.Warn("签发会话Token失败", zap.Error(err))
		return sessionID
	}

	c.Header(SessionTokenHeader, token)
	return sessionID
}

// MustGetSessionID 从Context取会话ID
// 只能在Attach()之后的Handler里调用。
func MustGetSessionID(c *gin.Context) string {
	sessionID, exists := c.Get(sessionIDKey)
	if !exists {
		// 中间件未挂载属于编码错误，直接返回错误响应
		response.ErrorWithCode(c, 40100, "会话未初始化")
		c.Abort()
		return ""
	}
	return sessionID.(string)
}
