package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// defaultProfileKey 是未提供身份时使用的档案键，由Configure从配置注入。
// 它是一个显式的、带文档默认值的参数，而不是隐藏的全局身份。
var defaultProfileKey = "default"

// Configure 注入profile模块的业务配置。
func Configure(defaultKey string) {
	if strings.TrimSpace(defaultKey) != "" {
		defaultProfileKey = defaultKey
	}
}

// NormalizeKey 将客户端提交的档案键规范化：空白键回落到默认键。
func NormalizeKey(key string) string {
	if strings.TrimSpace(key) == "" {
		return defaultProfileKey
	}
	return key
}

// FindOrCreateTx 在给定事务中按ProfileKey查找档案，不存在时创建。
// 并发的首次创建依赖ProfileKey上的唯一约束来仲裁：
// 冲突方不把重复键当作错误，而是改为读取胜者写入的记录。
func FindOrCreateTx(tx *gorm.DB, key string) (*Profile, error) {
	var p Profile
	err := tx.Where("profile_key = ?", key).First(&p).Error
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("无法查询档案 %s: %w", key, err)
	}

	p = Profile{ProfileKey: key}
	// 在savepoint中创建：PostgreSQL的唯一冲突会中止整个事务，
	// 只有把冲突限制在savepoint内，下面的回退读取才能执行
	if err := tx.Transaction(func(tx2 *gorm.DB) error {
		return tx2.Create(&p).Error
	}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// find-or-create竞争中落败，读取已存在的记录
			if err := tx.Where("profile_key = ?", key).First(&p).Error; err != nil {
				return nil, fmt.Errorf("无法读取并发创建的档案 %s: %w", key, err)
			}
			return &p, nil
		}
		return nil, fmt.Errorf("无法创建档案 %s: %w", key, err)
	}
	return &p, nil
}

// FindByKey 按ProfileKey查找档案，不存在时返回nil而不是错误。
// "从未玩过"是正常状态，读路径据此优雅降级。
func FindByKey(db *gorm.DB, key string) (*Profile, error) {
	var p Profile
	err := db.Where("profile_key = ?", key).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法查询档案 %s: %w", key, err)
	}
	return &p, nil
}

// SyncLeaderboard 把一份最新的档案写入Redis排行榜。
// Redis中只是派生数据，失败只记录日志，绝不影响已提交的主数据库事务。
func SyncLeaderboard(p *Profile) {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return
	}

	RLockRepository()
	defer RUnlockRepository()

	stats := LeaderboardStats{
		Points:    p.Points,
		BestCombo: p.BestCombo,
		Streak:    p.Streak,
	}
	statsJSON, _ := json.Marshal(stats)

	pipe := database.RDB.Pipeline()
	pipe.ZAdd(database.Ctx, LeaderboardKey, redis.Z{Score: float64(p.Points), Member: p.ProfileKey})
	pipe.HSet(database.Ctx, StatsKey, p.ProfileKey, statsJSON)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 无法更新Redis排行榜 (profile=%s): %v\n", p.ProfileKey, err)
	}
}

// LeaderboardEntry 是排行榜API的单行结构。
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	ProfileKey string `json:"profileKey"`
	Points     int    `json:"points"`
	BestCombo  int    `json:"bestCombo"`
	Streak     int    `json:"streak"`
}

// TopProfiles 返回按积分降序的前N个档案。
// 优先读取Redis排行榜；Redis不可用时回退到主数据库查询。
func TopProfiles(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if database.RDB != nil && database.IsRedisHealthy() {
		entries, err := topProfilesFromRedis(limit)
		if err == nil {
			return entries, nil
		}
		fmt.Printf("警告: 读取Redis排行榜失败，回退到主数据库: %v\n", err)
	}
	return topProfilesFromDB(limit)
}

func topProfilesFromRedis(limit int) ([]LeaderboardEntry, error) {
	RLockRepository()
	defer RUnlockRepository()

	zs, err := database.RDB.ZRevRangeWithScores(database.Ctx, LeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(zs))
	for i, z := range zs {
		keys[i] = z.Member.(string)
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	var statsJSONs []interface{}
	if len(keys) > 0 {
		statsJSONs, err = database.RDB.HMGet(database.Ctx, StatsKey, keys...).Result()
		if err != nil {
			return nil, err
		}
	}

	for i, z := range zs {
		entry := LeaderboardEntry{
			Rank:       i + 1,
			ProfileKey: keys[i],
			Points:     int(z.Score),
		}
		if i < len(statsJSONs) && statsJSONs[i] != nil {
			var stats LeaderboardStats
			if err := json.Unmarshal([]byte(statsJSONs[i].(string)), &stats); err == nil {
				entry.BestCombo = stats.BestCombo
				entry.Streak = stats.Streak
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func topProfilesFromDB(limit int) ([]LeaderboardEntry, error) {
	var profiles []Profile
	if err := database.DB.Order("points DESC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("无法从主数据库读取排行榜: %w", err)
	}

	// 主数据库排序以points为准，和Redis路径保持同样的降序语义
	sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].Points > profiles[j].Points })

	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i, p := range profiles {
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			ProfileKey: p.ProfileKey,
			Points:     p.Points,
			BestCombo:  p.BestCombo,
			Streak:     p.Streak,
		})
	}
	return entries, nil
}
