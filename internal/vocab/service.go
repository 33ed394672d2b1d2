package vocab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// newID 生成一个新的不透明字符串ID。
// UUID v7按时间有序，索引局部性比v4更好。
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成UUID v7: %w", err)
	}
	return id.String(), nil
}

// ListSets 返回全部词汇集及各自的单词数量，按创建时间降序。
func ListSets(db *gorm.DB) ([]SetSummary, error) {
	var sets []VocabSet
	if err := db.Order("created_at DESC").Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("无法查询词汇集: %w", err)
	}

	summaries := make([]SetSummary, 0, len(sets))
	for _, set := range sets {
		var count int64
		if err := db.Model(&VocabWord{}).Where("vocab_set_id = ?", set.SetID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("无法统计词汇集 %s 的单词数: %w", set.SetID, err)
		}
		summaries = append(summaries, SetSummary{
			ID:          set.SetID,
			Name:        set.Name,
			Description: set.Description,
			Grade:       set.Grade,
			WordCount:   int(count),
			CreatedAt:   set.CreatedAt,
			UpdatedAt:   set.UpdatedAt,
		})
	}
	return summaries, nil
}

// FindSet 按SetID查找词汇集，不存在时返回nil。
func FindSet(db *gorm.DB, setID string) (*VocabSet, error) {
	var set VocabSet
	err := db.Where("set_id = ?", setID).First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法查询词汇集 %s: %w", setID, err)
	}
	return &set, nil
}

// GetSetDetail 返回词汇集及其全部单词和例句。
func GetSetDetail(db *gorm.DB, setID string) (*SetDetail, error) {
	set, err := FindSet(db, setID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}

	words, err := WordsBySet(db, setID)
	if err != nil {
		return nil, err
	}

	wordIDs := make([]string, len(words))
	for i, w := range words {
		wordIDs[i] = w.WordID
	}

	examplesByWord := make(map[string][]VocabExample)
	if len(wordIDs) > 0 {
		var examples []VocabExample
		if err := db.Where("word_id IN ?", wordIDs).Order("id ASC").Find(&examples).Error; err != nil {
			return nil, fmt.Errorf("无法查询例句: %w", err)
		}
		for _, ex := range examples {
			examplesByWord[ex.WordID] = append(examplesByWord[ex.WordID], ex)
		}
	}

	detail := &SetDetail{VocabSet: *set, Words: make([]WordDetail, 0, len(words))}
	for _, w := range words {
		detail.Words = append(detail.Words, WordDetail{
			VocabWord: w,
			Examples:  examplesByWord[w.WordID],
		})
	}
	return detail, nil
}

// WordsBySet 返回词汇集内的全部单词，按字母序。
func WordsBySet(db *gorm.DB, setID string) ([]VocabWord, error) {
	var words []VocabWord
	if err := db.Where("vocab_set_id = ?", setID).Order("word ASC").Find(&words).Error; err != nil {
		return nil, fmt.Errorf("无法查询词汇集 %s 的单词: %w", setID, err)
	}
	return words, nil
}

// NewWordInput 是创建词汇集时单个单词的输入结构。
// 这里接收的是已经结构化的内容；AI生成属于外部协作方，不在本服务内。
type NewWordInput struct {
	Word              string            `json:"word"`
	Definition        string            `json:"definition"`
	TeacherDefinition string            `json:"teacherDefinition"`
	Pronunciation     string            `json:"pronunciation"`
	PartOfSpeech      string            `json:"partOfSpeech"`
	Examples          []NewExampleInput `json:"examples"`
}

// NewExampleInput 是创建词汇集时单条例句的输入结构。
type NewExampleInput struct {
	Sentence         string `json:"sentence"`
	ImageDescription string `json:"imageDescription"`
}

// CreateSet 在一个事务中创建词汇集及其全部单词和例句。
func CreateSet(db *gorm.DB, name, description, grade string, words []NewWordInput) (*SetDetail, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("词汇集名称不能为空")
	}

	setID, err := newID()
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		set := VocabSet{
			SetID:       setID,
			Name:        name,
			Description: description,
			Grade:       grade,
		}
		if err := tx.Create(&set).Error; err != nil {
			return fmt.Errorf("无法创建词汇集: %w", err)
		}

		for _, input := range words {
			if strings.TrimSpace(input.Word) == "" {
				continue
			}
			wordID, err := newID()
			if err != nil {
				return err
			}
			word := VocabWord{
				WordID:            wordID,
				VocabSetID:        setID,
				Word:              input.Word,
				Definition:        input.Definition,
				TeacherDefinition: input.TeacherDefinition,
				Pronunciation:     input.Pronunciation,
				PartOfSpeech:      input.PartOfSpeech,
			}
			if err := tx.Create(&word).Error; err != nil {
				return fmt.Errorf("无法创建单词 %s: %w", input.Word, err)
			}
			for _, ex := range input.Examples {
				if strings.TrimSpace(ex.Sentence) == "" {
					continue
				}
				example := VocabExample{
					WordID:           wordID,
					Sentence:         ex.Sentence,
					ImageDescription: ex.ImageDescription,
				}
				if err := tx.Create(&example).Error; err != nil {
					return fmt.Errorf("无法创建例句: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return GetSetDetail(db, setID)
}

// ListAllWords 返回目录中的全部单词，按字母序。
// 供跨词汇集的维护界面使用。
func ListAllWords(db *gorm.DB) ([]VocabWord, error) {
	var words []VocabWord
	if err := db.Order("word ASC").Find(&words).Error; err != nil {
		return nil, fmt.Errorf("无法查询单词目录: %w", err)
	}
	return words, nil
}

// FindWord 按WordID查找单词，不存在时返回nil。
func FindWord(db *gorm.DB, wordID string) (*VocabWord, error) {
	var word VocabWord
	err := db.Where("word_id = ?", wordID).First(&word).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("无法查询单词 %s: %w", wordID, err)
	}
	return &word, nil
}

// UpdateWordInput 是单词部分更新的输入结构，nil字段保持原值。
type UpdateWordInput struct {
	Word              *string `json:"word"`
	Definition        *string `json:"definition"`
	TeacherDefinition *string `json:"teacherDefinition"`
	Pronunciation     *string `json:"pronunciation"`
	PartOfSpeech      *string `json:"partOfSpeech"`
}

// UpdateWord 对单个单词执行部分更新，单词不存在时返回nil。
func UpdateWord(db *gorm.DB, wordID string, input UpdateWordInput) (*VocabWord, error) {
	word, err := FindWord(db, wordID)
	if err != nil || word == nil {
		return word, err
	}

	if input.Word != nil && strings.TrimSpace(*input.Word) != "" {
		word.Word = *input.Word
	}
	if input.Definition != nil {
		word.Definition = *input.Definition
	}
	if input.TeacherDefinition != nil {
		word.TeacherDefinition = *input.TeacherDefinition
	}
	if input.Pronunciation != nil {
		word.Pronunciation = *input.Pronunciation
	}
	if input.PartOfSpeech != nil {
		word.PartOfSpeech = *input.PartOfSpeech
	}

	if err := db.Save(word).Error; err != nil {
		return nil, fmt.Errorf("无法更新单词 %s: %w", wordID, err)
	}
	return word, nil
}

// DeleteWord 删除单个单词及其级联的例句。
// 单词不存在时是幂等的成功。
func DeleteWord(db *gorm.DB, wordID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("word_id = ?", wordID).Delete(&VocabExample{}).Error; err != nil {
			return fmt.Errorf("无法删除例句: %w", err)
		}
		if err := tx.Where("word_id = ?", wordID).Delete(&VocabWord{}).Error; err != nil {
			return fmt.Errorf("无法删除单词 %s: %w", wordID, err)
		}
		return nil
	})
}

// DeleteSet 删除词汇集及其级联的单词和例句。
// 词汇集不存在时是幂等的成功。
func DeleteSet(db *gorm.DB, setID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var wordIDs []string
		if err := tx.Model(&VocabWord{}).Where("vocab_set_id = ?", setID).Pluck("word_id", &wordIDs).Error; err != nil {
			return fmt.Errorf("无法枚举词汇集 %s 的单词: %w", setID, err)
		}
		if len(wordIDs) > 0 {
			if err := tx.Where("word_id IN ?", wordIDs).Delete(&VocabExample{}).Error; err != nil {
				return fmt.Errorf("无法删除例句: %w", err)
			}
		}
		if err := tx.Where("vocab_set_id = ?", setID).Delete(&VocabWord{}).Error; err != nil {
			return fmt.Errorf("无法删除单词: %w", err)
		}
		if err := tx.Where("set_id = ?", setID).Delete(&VocabSet{}).Error; err != nil {
			return fmt.Errorf("无法删除词汇集: %w", err)
		}
		return nil
	})
}
