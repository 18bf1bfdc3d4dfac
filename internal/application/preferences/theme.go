// Package preferences 访客偏好设置
//
// 目前只有主题偏好：light/dark/system，按会话持久化。
// system表示跟随客户端系统设置，最终的明暗由客户端解析。
package preferences

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/storage"
)

// 主题取值
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// DefaultTheme 缺省主题
const DefaultTheme = ThemeSystem

// ErrInvalidTheme 非法的主题值
var ErrInvalidTheme = errors.New("非法的主题值")

// Service 偏好设置应用服务
type Service struct {
	kv  storage.KeyValueStore
	ttl time.Duration
	log *zap.Logger
}

// NewService 创建偏好设置服务
func NewService(kv storage.KeyValueStore, ttl time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{kv: kv, ttl: ttl, log: log}
}

func themeKey(sessionID string) string {
	return "theme:" + sessionID
}

// GetTheme 读取会话的主题偏好，没有则返回缺省值
func (s *Service) GetTheme(ctx context.Context, sessionID string) (string, error) {
	data, err := s.kv.Get(ctx, themeKey(sessionID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DefaultTheme, nil
		}
		return "", err
	}

	theme := string(data)
	if !validTheme(theme) {
		return DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme 保存会话的主题偏好
func (s *Service) SetTheme(ctx context.Context, sessionID, theme string) error {
	if !validTheme(theme) {
		return ErrInvalidTheme
	}
	if err := s.kv.Set(ctx, themeKey(sessionID), []byte(theme), s.ttl); err != nil {
		return err
	}
	s.log.Debug("主题偏好已更新",
		zap.String("session_id", sessionID),
		zap.String("theme", theme),
	)
	return nil
}

func validTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}
