// Package clock provides the time source interface.
package clock

import "github.com/benbjohnson/clock"

// Clock 统一时间源接口（基础设施层接口）
//
// 直接沿用 benbjohnson/clock 的接口：生产环境注入系统时钟，
// 测试注入 clock.NewMock() 手动推进时间，用于缓存 TTL 与在途锁过期。
type Clock = clock.Clock
