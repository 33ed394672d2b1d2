package progress

import (
	"fmt"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
)

// PrimeDB 负责初始化progress模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&ModeProgress{}, &Attempt{}); err != nil {
		return fmt.Errorf("无法迁移progress相关表: %w", err)
	}
	fmt.Println("Progress数据库表迁移成功。")
	return nil
}
