package profile

import (
	"encoding/json"
	"fmt"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Profile{}); err != nil {
		return fmt.Errorf("无法迁移profile表: %w", err)
	}
	fmt.Println("Profile数据库表迁移成功。")
	return nil
}

// WarmupCache 从主数据库加载所有档案，并重建Redis中的排行榜。
// 调用方负责持有模块写锁。
func WarmupCache() error {
	if database.RDB == nil {
		return nil
	}

	var profiles []Profile
	if err := database.DB.Find(&profiles).Error; err != nil {
		return fmt.Errorf("无法从主数据库读取档案: %w", err)
	}

	pipe := database.RDB.Pipeline()
	// 先清空旧的缓存，确保数据一致性
	pipe.Del(database.Ctx, LeaderboardKey, StatsKey)

	for _, p := range profiles {
		statsJSON, _ := json.Marshal(LeaderboardStats{
			Points:    p.Points,
			BestCombo: p.BestCombo,
			Streak:    p.Streak,
		})
		pipe.ZAdd(database.Ctx, LeaderboardKey, redis.Z{Score: float64(p.Points), Member: p.ProfileKey})
		pipe.HSet(database.Ctx, StatsKey, p.ProfileKey, statsJSON)
	}

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热档案排行榜到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个档案到Redis排行榜。\n", len(profiles))
	return nil
}

// PrimeCachedDB 是profile模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
