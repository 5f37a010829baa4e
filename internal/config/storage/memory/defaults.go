package memory

import "time"

// 内存存储默认配置值
const (
	// defaultLifeWindow 条目生命周期（已确认回执不可变，窗口只用于回收内存）
	defaultLifeWindow = 24 * time.Hour

	// defaultCleanWindow 清理间隔
	defaultCleanWindow = 5 * time.Minute

	// defaultMaxCacheSizeMB 最大内存（MB）
	defaultMaxCacheSizeMB = 256

	// defaultShards 分片数（必须是2的幂）
	defaultShards = 64

	// defaultMaxEntriesInWindow 窗口内预估条目数，用于预分配
	defaultMaxEntriesInWindow = 10000

	// defaultMaxEntrySize 单条目预估大小（字节）
	defaultMaxEntrySize = 4 * 1024
)
