package profile

import (
	"sync"
)

// --- Redis 键名常量 ---

const (
	// LeaderboardKey 是一个 Redis Sorted Set 的键，用于存储档案的积分排名。
	// Score: 档案的总积分
	// Member: 档案的ProfileKey
	LeaderboardKey = "profile:leaderboard"

	// StatsKey 是一个 Redis Hash 的键，用于存储排行榜展示所需的档案摘要。
	// Field: 档案的ProfileKey
	// Value: LeaderboardStats 结构体的JSON序列化字符串
	StatsKey = "profile:stats"
)

// --- Redis 数据结构 ---

// LeaderboardStats 定义了在 profile:stats 哈希表中以JSON格式存储的档案摘要。
// 它只包含排行榜展示所需的字段，完整档案始终以主数据库为准。
type LeaderboardStats struct {
	Points    int `json:"points"`
	BestCombo int `json:"bestCombo"`
	Streak    int `json:"streak"`
}

// --- 并发控制 ---

// repoMutex 是一个模块内部的、不导出的全局读写锁，
// 用于保护缓存预热与单条更新之间对本模块Redis键的并发访问。
var repoMutex sync.RWMutex

// LockRepository 封装了对模块全局锁的写锁定操作。
func LockRepository() {
	repoMutex.Lock()
}

// UnlockRepository 封装了对模块全局锁的写解锁操作。
func UnlockRepository() {
	repoMutex.Unlock()
}

// RLockRepository 封装了对模块全局锁的读锁定操作。
func RLockRepository() {
	repoMutex.RLock()
}

// RUnlockRepository 封装了对模块全局锁的读解锁操作。
func RUnlockRepository() {
	repoMutex.RUnlock()
}
