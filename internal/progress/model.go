package progress

import (
	"time"

	"gorm.io/gorm"
)

// GameMode 定义了游戏模式的枚举类型。
// 合法的模式集合来自配置，见 Configure。
type GameMode string

// DefaultModes 是未配置时的缺省模式集合。
var DefaultModes = []string{
	"definition-match",
	"reverse-definition",
	"fill-in-the-blank",
	"speed-round",
	"matching",
	"word-scramble",
}

// ModeProgress 定义了单个 (档案, 词汇集, 模式) 组合的练习进度。
// 组合唯一索引保证每个组合只有一行，upsert依赖它来仲裁并发创建。
type ModeProgress struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// ProfileID 是所属档案的主键
	ProfileID uint `gorm:"not null;uniqueIndex:idx_profile_set_mode"`

	// VocabSetID 是词汇集的不透明ID
	VocabSetID string `gorm:"not null;type:varchar(64);uniqueIndex:idx_profile_set_mode"`

	// Mode 是游戏模式
	Mode string `gorm:"not null;type:varchar(32);uniqueIndex:idx_profile_set_mode"`

	// Attempted 和 Correct 是单调不减的答题计数器
	Attempted int
	Correct   int

	// LastPlayedAt 是该组合最近一次答题的时间
	LastPlayedAt *time.Time

	// CompletedAt 在Correct首次达到完成阈值时被设置。
	// 一旦设置，后续答题永不清除；只有显式重置会整行删除。
	CompletedAt *time.Time
}

// Attempt 定义了单次答题的原始日志，仅在提交带wordId时记录。
// 只追加，从不更新，供分析查询使用。
type Attempt struct {
	gorm.Model

	ProfileID  uint   `gorm:"not null;index"`
	VocabSetID string `gorm:"not null;type:varchar(64);index"`
	WordID     string `gorm:"not null;type:varchar(64);index"`
	Mode       string `gorm:"not null;type:varchar(32)"`
	Correct    bool

	// PointsAwarded 是本题实际计入的积分（已消毒）
	PointsAwarded int

	// TimeRemaining 是限时模式下答题时的剩余秒数，非限时模式为空
	TimeRemaining *float64
}

// ModeProgressRecord 是ModeProgress在API响应中的JSON结构。
type ModeProgressRecord struct {
	ID           uint       `json:"id"`
	ProfileID    uint       `json:"profileId"`
	VocabSetID   string     `json:"vocabSetId"`
	Mode         string     `json:"mode"`
	Attempted    int        `json:"attempted"`
	Correct      int        `json:"correct"`
	LastPlayedAt *time.Time `json:"lastPlayedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Summarize 将持久化模型转换为API响应结构。
func (m *ModeProgress) Summarize() ModeProgressRecord {
	return ModeProgressRecord{
		ID:           m.ID,
		ProfileID:    m.ProfileID,
		VocabSetID:   m.VocabSetID,
		Mode:         m.Mode,
		Attempted:    m.Attempted,
		Correct:      m.Correct,
		LastPlayedAt: m.LastPlayedAt,
		CompletedAt:  m.CompletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// AttemptRecord 是Attempt在API响应中的JSON结构。
type AttemptRecord struct {
	ID            uint      `json:"id"`
	WordID        string    `json:"wordId"`
	Mode          string    `json:"mode"`
	Correct       bool      `json:"correct"`
	PointsAwarded int       `json:"pointsAwarded"`
	TimeRemaining *float64  `json:"timeRemaining"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summarize 将持久化模型转换为API响应结构。
func (a *Attempt) Summarize() AttemptRecord {
	return AttemptRecord{
		ID:            a.ID,
		WordID:        a.WordID,
		Mode:          a.Mode,
		Correct:       a.Correct,
		PointsAwarded: a.PointsAwarded,
		TimeRemaining: a.TimeRemaining,
		CreatedAt:     a.CreatedAt,
	}
}
