package order

import (
	"fmt"
	"math/rand"
	"time"
)

// NewOrderNo 生成订单号
//
// 格式：ORD + 毫秒时间戳 + 3位随机数
// 示例：ORD1699248000123456
//
// 单实例访客商城不需要全局唯一性保证，时间戳+随机尾数
// 足以避免同会话内碰撞。
func NewOrderNo() string {
	return fmt.Sprintf("ORD%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}
