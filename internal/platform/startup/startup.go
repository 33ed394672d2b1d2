package startup

import (
	"fmt"

	"github.com/lexileap/vocab-games-backend/internal/mastery"
	"github.com/lexileap/vocab-games-backend/internal/platform/config"
	"github.com/lexileap/vocab-games-backend/internal/platform/metadata"
	"github.com/lexileap/vocab-games-backend/internal/profile"
	"github.com/lexileap/vocab-games-backend/internal/progress"
	"github.com/lexileap/vocab-games-backend/internal/vocab"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication(cfg *config.Config) error {
	fmt.Println("开始应用首次初始化...")

	// 注入各模块的业务配置
	profile.Configure(cfg.Game.DefaultProfileKey)
	progress.Configure(cfg.Game.Modes, cfg.Game.CompletionThreshold)

	// 迁移与缓存预热
	if err := metadata.PrimeDB(); err != nil {
		return err
	}
	if err := vocab.PrimeDB(); err != nil {
		return err
	}
	if err := mastery.PrimeDB(); err != nil {
		return err
	}
	if err := progress.PrimeDB(); err != nil {
		return err
	}
	if err := profile.PrimeCachedDB(); err != nil {
		return err
	}
	if err := metadata.MarkLeaderboardWarmup(); err != nil {
		fmt.Printf("警告: 无法记录排行榜预热时间: %v\n", err)
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 是一个专门用于在运行时热重建Redis缓存的函数。
// Redis重启后由健康检查器调用，把排行榜从主数据库整体重建。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	err := func() error {
		profile.LockRepository()
		defer profile.UnlockRepository()
		return profile.WarmupCache()
	}()
	if err != nil {
		return err
	}

	if err := metadata.MarkLeaderboardWarmup(); err != nil {
		fmt.Printf("警告: 无法记录排行榜预热时间: %v\n", err)
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
