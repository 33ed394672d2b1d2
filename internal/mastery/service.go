package mastery

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// clampLevel 把掌握度等级饱和到[MinLevel, MaxLevel]区间。
func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ApplyDelta 是掌握度更新的唯一实现。
// 闪卡学习流和游戏答题流都必须经过它，保证饱和不变量在所有入口成立。
// 记录不存在时创建（答对从1级起步，答错停在0级），存在时增量更新。
// 它在调用方提供的事务/连接上执行，自身不开启新事务。
func ApplyDelta(tx *gorm.DB, wordID, userID string, correct bool, now time.Time) (*StudyProgress, error) {
	var p StudyProgress
	err := tx.Where("word_id = ? AND user_id = ?", wordID, userID).First(&p).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("无法查询掌握度记录 (word=%s): %w", wordID, err)
		}

		p = StudyProgress{
			WordID:      wordID,
			UserID:      userID,
			LastStudied: now,
		}
		if correct {
			p.CorrectCount = 1
			p.MasteryLevel = clampLevel(1)
		} else {
			p.IncorrectCount = 1
			p.MasteryLevel = MinLevel
		}

		// 在savepoint中创建：PostgreSQL的唯一冲突会中止整个事务，
		// 只有把冲突限制在savepoint内，下面的更新路径才能执行
		if err := tx.Transaction(func(tx2 *gorm.DB) error {
			return tx2.Create(&p).Error
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 并发首次创建落败，改走更新路径
				return applyDeltaToExisting(tx, wordID, userID, correct, now)
			}
			return nil, fmt.Errorf("无法创建掌握度记录 (word=%s): %w", wordID, err)
		}
		return &p, nil
	}

	return updateProgress(tx, &p, correct, now)
}

func applyDeltaToExisting(tx *gorm.DB, wordID, userID string, correct bool, now time.Time) (*StudyProgress, error) {
	var p StudyProgress
	if err := tx.Where("word_id = ? AND user_id = ?", wordID, userID).First(&p).Error; err != nil {
		return nil, fmt.Errorf("无法读取并发创建的掌握度记录 (word=%s): %w", wordID, err)
	}
	return updateProgress(tx, &p, correct, now)
}

func updateProgress(tx *gorm.DB, p *StudyProgress, correct bool, now time.Time) (*StudyProgress, error) {
	if correct {
		p.CorrectCount++
		p.MasteryLevel = clampLevel(p.MasteryLevel + 1)
	} else {
		p.IncorrectCount++
		p.MasteryLevel = clampLevel(p.MasteryLevel - 1)
	}
	p.LastStudied = now

	if err := tx.Save(p).Error; err != nil {
		return nil, fmt.Errorf("无法更新掌握度记录 (word=%s): %w", p.WordID, err)
	}
	return p, nil
}

// FindByWord 查找某个单词在指定身份下的掌握度记录，不存在时返回nil。
func FindByWord(db *gorm.DB, wordID, userID string) (*StudyProgress, error) {
	var p StudyProgress
	err := db.Where("word_id = ? AND user_id = ?", wordID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法查询掌握度记录 (word=%s): %w", wordID, err)
	}
	return &p, nil
}

// ListByWords 批量查找一组单词的掌握度记录，返回以WordID为键的映射。
func ListByWords(db *gorm.DB, wordIDs []string, userID string) (map[string]StudyProgress, error) {
	result := make(map[string]StudyProgress, len(wordIDs))
	if len(wordIDs) == 0 {
		return result, nil
	}

	var rows []StudyProgress
	if err := db.Where("word_id IN ? AND user_id = ?", wordIDs, userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("无法批量查询掌握度记录: %w", err)
	}
	for _, row := range rows {
		result[row.WordID] = row
	}
	return result, nil
}

// ListRecent 返回指定身份最近学习的掌握度记录，按LastStudied降序。
func ListRecent(db *gorm.DB, userID string, limit int) ([]StudyProgress, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []StudyProgress
	if err := db.Where("user_id = ?", userID).Order("last_studied DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("无法查询最近学习记录: %w", err)
	}
	return rows, nil
}
