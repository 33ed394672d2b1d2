package vocab

import (
	"time"

	"gorm.io/gorm"
)

// VocabSet 定义了词汇集在主数据库中的持久化模型。
// 一个词汇集对应一周的生词表，由家长/老师创建。
type VocabSet struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// SetID 是词汇集对外的不透明字符串ID (UUID v7)。
	// 进度模块只把它当作外键字符串，不关心其内容。
	SetID string `gorm:"uniqueIndex;not null;type:varchar(64)" json:"id"`

	// Name 是词汇集名称，例如 "Week 12 Spelling"
	Name string `json:"name"`

	// Description 是可选的描述
	Description string `json:"description"`

	// Grade 是适用年级，例如 "3"
	Grade string `json:"grade"`
}

// VocabWord 定义了单词在主数据库中的持久化模型
type VocabWord struct {
	gorm.Model

	// WordID 是单词对外的不透明字符串ID (UUID v7)。
	WordID string `gorm:"uniqueIndex;not null;type:varchar(64)" json:"id"`

	// VocabSetID 是所属词汇集的SetID
	VocabSetID string `gorm:"index;not null;type:varchar(64)" json:"vocabSetId"`

	// Word 是单词本身
	Word string `gorm:"not null" json:"word"`

	// Definition 是面向学生的释义
	Definition string `json:"definition"`

	// TeacherDefinition 是老师提供的原始释义，可能为空
	TeacherDefinition string `json:"teacherDefinition"`

	// Pronunciation 是注音，例如 "/kat/"
	Pronunciation string `json:"pronunciation"`

	// PartOfSpeech 是词性，例如 "noun"
	PartOfSpeech string `json:"partOfSpeech"`
}

// VocabExample 定义了例句在主数据库中的持久化模型
type VocabExample struct {
	gorm.Model

	// WordID 是所属单词的WordID
	WordID string `gorm:"index;not null;type:varchar(64)" json:"wordId"`

	// Sentence 是例句文本
	Sentence string `json:"sentence"`

	// ImageDescription 是配图的文字描述（配图生成由外部服务负责）
	ImageDescription string `json:"imageDescription"`

	// ImageURL 是已生成配图的相对路径，可能为空
	ImageURL string `json:"imageUrl"`
}

// SetSummary 是词汇集列表API的单行结构
type SetSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Grade       string    `json:"grade"`
	WordCount   int       `json:"wordCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WordDetail 是带例句的单词结构
type WordDetail struct {
	VocabWord
	Examples []VocabExample `json:"examples"`
}

// SetDetail 是带单词列表的词汇集结构
type SetDetail struct {
	VocabSet
	Words []WordDetail `json:"words"`
}
