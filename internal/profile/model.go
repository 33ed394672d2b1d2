package profile

import (
	"time"

	"gorm.io/gorm"
)

// Profile 定义了玩家档案在主数据库中的持久化模型。
// 它是单个学习者身份的进度聚合记录，按ProfileKey惰性创建。
type Profile struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// ProfileKey 是客户端提供的不透明档案键。
	// 单用户部署下使用配置中的默认键。
	ProfileKey string `gorm:"uniqueIndex;not null;type:varchar(64)"`

	// Points 是累计获得的总积分，除显式重置外单调不减。
	Points int

	// QuestionsAttempted 和 QuestionsCorrect 是单调不减的答题计数器。
	QuestionsAttempted int
	QuestionsCorrect   int

	// CurrentCombo 是当前连续答对次数，答错即归零。
	CurrentCombo int

	// BestCombo 是CurrentCombo的历史最高水位。
	BestCombo int

	// Streak 是连续有答对记录的UTC日历天数。
	Streak int

	// LastPlayedAt 仅在答对时更新，用于Streak的跨天判定。
	LastPlayedAt *time.Time
}

// Summary 是档案在API响应中的JSON结构，字段名与前端约定保持一致。
type Summary struct {
	ID                 uint       `json:"id"`
	ProfileKey         string     `json:"profileKey"`
	Points             int        `json:"points"`
	QuestionsAttempted int        `json:"questionsAttempted"`
	QuestionsCorrect   int        `json:"questionsCorrect"`
	Streak             int        `json:"streak"`
	CurrentCombo       int        `json:"currentCombo"`
	BestCombo          int        `json:"bestCombo"`
	LastPlayedAt       *time.Time `json:"lastPlayedAt"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// Summarize 将持久化模型转换为API响应结构。
func (p *Profile) Summarize() Summary {
	return Summary{
		ID:                 p.ID,
		ProfileKey:         p.ProfileKey,
		Points:             p.Points,
		QuestionsAttempted: p.QuestionsAttempted,
		QuestionsCorrect:   p.QuestionsCorrect,
		Streak:             p.Streak,
		CurrentCombo:       p.CurrentCombo,
		BestCombo:          p.BestCombo,
		LastPlayedAt:       p.LastPlayedAt,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}
