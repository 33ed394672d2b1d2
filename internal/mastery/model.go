package mastery

import (
	"time"

	"gorm.io/gorm"
)

// 掌握度等级的饱和边界：0 = "Not Learned"，5 = "Expert"。
const (
	MinLevel = 0
	MaxLevel = 5
)

// StudyProgress 定义了单词掌握度在主数据库中的持久化模型。
// 它按 (WordID, UserID) 组合键upsert，闪卡学习流和游戏答题流
// 共用同一条记录和同一个更新规则。
type StudyProgress struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// WordID 是被学习单词的不透明ID。
	WordID string `gorm:"not null;type:varchar(64);uniqueIndex:idx_word_user"`

	// UserID 是学习者身份。匿名/游戏驱动的掌握度用空字符串而不是NULL，
	// 这样组合唯一索引才能真正去重（SQL中NULL彼此不相等）。
	UserID string `gorm:"type:varchar(64);default:'';uniqueIndex:idx_word_user"`

	// CorrectCount 和 IncorrectCount 是单调不减的计数器。
	CorrectCount   int
	IncorrectCount int

	// MasteryLevel 是[0,5]区间内的整数：答对+1，答错-1，边界处饱和。
	MasteryLevel int

	// LastStudied 是最近一次学习该单词的时间。
	LastStudied time.Time
}

// Record 是掌握度记录在API响应中的JSON结构。
type Record struct {
	ID             uint      `json:"id"`
	WordID         string    `json:"wordId"`
	UserID         *string   `json:"userId"`
	CorrectCount   int       `json:"correctCount"`
	IncorrectCount int       `json:"incorrectCount"`
	MasteryLevel   int       `json:"masteryLevel"`
	LastStudied    time.Time `json:"lastStudied"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Summarize 将持久化模型转换为API响应结构，空UserID对外呈现为null。
func (p *StudyProgress) Summarize() Record {
	var userID *string
	if p.UserID != "" {
		uid := p.UserID
		userID = &uid
	}
	return Record{
		ID:             p.ID,
		WordID:         p.WordID,
		UserID:         userID,
		CorrectCount:   p.CorrectCount,
		IncorrectCount: p.IncorrectCount,
		MasteryLevel:   p.MasteryLevel,
		LastStudied:    p.LastStudied,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
