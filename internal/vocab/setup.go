package vocab

import (
	"fmt"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
)

// PrimeDB 负责初始化vocab模块的数据库部分
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&VocabSet{}, &VocabWord{}, &VocabExample{}); err != nil {
		return fmt.Errorf("无法迁移vocab相关表: %w", err)
	}
	fmt.Println("Vocab数据库表迁移成功。")
	return nil
}
