package mastery

import (
	"fmt"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
)

// PrimeDB 负责初始化mastery模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&StudyProgress{}); err != nil {
		return fmt.Errorf("无法迁移study_progress表: %w", err)
	}
	fmt.Println("StudyProgress数据库表迁移成功。")
	return nil
}
