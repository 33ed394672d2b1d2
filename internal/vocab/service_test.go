package vocab

import (
	"testing"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
	"github.com/lexileap/vocab-games-backend/internal/platform/database/dbtest"
)

func setupVocabDB(t *testing.T) {
	t.Helper()
	dbtest.Use(t, &VocabSet{}, &VocabWord{}, &VocabExample{})
}

func sampleWords() []NewWordInput {
	return []NewWordInput{
		{
			Word:          "brave",
			Definition:    "showing courage",
			Pronunciation: "brayv",
			PartOfSpeech:  "adjective",
			Examples: []NewExampleInput{
				{Sentence: "The brave firefighter rescued the cat.", ImageDescription: "a firefighter on a ladder"},
				{Sentence: "She was brave enough to speak up."},
			},
		},
		{
			Word:       "apple",
			Definition: "a round fruit",
			Examples:   []NewExampleInput{{Sentence: "An apple a day."}},
		},
		{Word: "   "}, // 空白单词在创建时被跳过
	}
}

func TestCreateSet(t *testing.T) {
	setupVocabDB(t)

	detail, err := CreateSet(database.DB, "Unit 3", "adjectives and fruit", "3rd", sampleWords())
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if detail.SetID == "" || detail.Name != "Unit 3" || detail.Grade != "3rd" {
		t.Fatalf("词汇集内容错误: %+v", detail.VocabSet)
	}
	if len(detail.Words) != 2 {
		t.Fatalf("空白单词应被跳过, got %d words", len(detail.Words))
	}

	// WordsBySet按字母序：apple在brave之前
	if detail.Words[0].Word != "apple" || detail.Words[1].Word != "brave" {
		t.Fatalf("单词应按字母序: %q, %q", detail.Words[0].Word, detail.Words[1].Word)
	}
	if len(detail.Words[1].Examples) != 2 {
		t.Fatalf("brave应有2条例句, got %d", len(detail.Words[1].Examples))
	}
	if detail.Words[1].Examples[0].ImageDescription != "a firefighter on a ladder" {
		t.Fatalf("例句内容错误: %+v", detail.Words[1].Examples[0])
	}

	// 每个单词都有独立的不透明ID
	if detail.Words[0].WordID == detail.Words[1].WordID || detail.Words[0].WordID == "" {
		t.Fatalf("单词ID应各自唯一: %+v", detail.Words)
	}

	if _, err := CreateSet(database.DB, "  ", "", "", nil); err == nil {
		t.Fatal("空名称应返回错误")
	}
}

func TestListSets(t *testing.T) {
	setupVocabDB(t)

	first, err := CreateSet(database.DB, "Unit 1", "", "2nd", sampleWords())
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if _, err := CreateSet(database.DB, "Unit 2", "", "2nd", nil); err != nil {
		t.Fatalf("CreateSet: %v", err)
	}

	sets, err := ListSets(database.DB)
	if err != nil {
		t.Fatalf("ListSets: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("应返回2个词汇集, got %d", len(sets))
	}

	counts := make(map[string]int, len(sets))
	for _, s := range sets {
		counts[s.ID] = s.WordCount
	}
	if counts[first.SetID] != 2 {
		t.Fatalf("Unit 1的单词数应为2, got %d", counts[first.SetID])
	}
}

func TestGetSetDetailMissing(t *testing.T) {
	setupVocabDB(t)

	detail, err := GetSetDetail(database.DB, "no-such-set")
	if err != nil {
		t.Fatalf("GetSetDetail: %v", err)
	}
	if detail != nil {
		t.Fatalf("不存在的词汇集应返回nil, got %+v", detail)
	}
}

func TestListAllWords(t *testing.T) {
	setupVocabDB(t)

	if _, err := CreateSet(database.DB, "Unit 1", "", "2nd", sampleWords()); err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	if _, err := CreateSet(database.DB, "Unit 2", "", "3rd", []NewWordInput{
		{Word: "cloud", Definition: "visible vapor"},
	}); err != nil {
		t.Fatalf("CreateSet: %v", err)
	}

	words, err := ListAllWords(database.DB)
	if err != nil {
		t.Fatalf("ListAllWords: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("应跨词汇集返回3个单词, got %d", len(words))
	}
	if words[0].Word != "apple" || words[2].Word != "cloud" {
		t.Fatalf("单词应按字母序: %+v", words)
	}
}

func TestUpdateWord(t *testing.T) {
	setupVocabDB(t)

	detail, err := CreateSet(database.DB, "Unit 1", "", "2nd", sampleWords())
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	target := detail.Words[0] // apple

	newDef := "a crisp fruit"
	updated, err := UpdateWord(database.DB, target.WordID, UpdateWordInput{Definition: &newDef})
	if err != nil {
		t.Fatalf("UpdateWord: %v", err)
	}
	if updated.Definition != "a crisp fruit" {
		t.Fatalf("释义应被更新: %+v", updated)
	}
	// nil字段保持原值
	if updated.Word != "apple" {
		t.Fatalf("未提交的字段不应改变: %+v", updated)
	}

	// 空白的新单词文本被忽略
	blank := "   "
	updated, err = UpdateWord(database.DB, target.WordID, UpdateWordInput{Word: &blank})
	if err != nil || updated.Word != "apple" {
		t.Fatalf("空白单词文本应被忽略: err=%v word=%q", err, updated.Word)
	}

	// 不存在的单词返回nil
	missing, err := UpdateWord(database.DB, "no-such-word", UpdateWordInput{Definition: &newDef})
	if err != nil || missing != nil {
		t.Fatalf("不存在的单词应返回nil: err=%v word=%+v", err, missing)
	}
}

func TestDeleteWordCascade(t *testing.T) {
	setupVocabDB(t)

	detail, err := CreateSet(database.DB, "Unit 1", "", "2nd", sampleWords())
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	target := detail.Words[1] // brave, 带2条例句

	if err := DeleteWord(database.DB, target.WordID); err != nil {
		t.Fatalf("DeleteWord: %v", err)
	}

	gone, err := FindWord(database.DB, target.WordID)
	if err != nil || gone != nil {
		t.Fatalf("单词应已删除: err=%v word=%+v", err, gone)
	}
	var exampleCount int64
	database.DB.Model(&VocabExample{}).Where("word_id = ?", target.WordID).Count(&exampleCount)
	if exampleCount != 0 {
		t.Fatalf("例句应被级联删除, got %d", exampleCount)
	}

	// 同词汇集的其他单词不受影响
	kept, err := FindWord(database.DB, detail.Words[0].WordID)
	if err != nil || kept == nil {
		t.Fatalf("其他单词不应受影响: err=%v word=%+v", err, kept)
	}

	// 重复删除是幂等的成功
	if err := DeleteWord(database.DB, target.WordID); err != nil {
		t.Fatalf("重复删除应为无副作用的成功: %v", err)
	}
}

func TestDeleteSetCascade(t *testing.T) {
	setupVocabDB(t)

	detail, err := CreateSet(database.DB, "Unit 3", "", "3rd", sampleWords())
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}
	keep, err := CreateSet(database.DB, "Unit 4", "", "3rd", sampleWords())
	if err != nil {
		t.Fatalf("CreateSet: %v", err)
	}

	if err := DeleteSet(database.DB, detail.SetID); err != nil {
		t.Fatalf("DeleteSet: %v", err)
	}

	gone, err := FindSet(database.DB, detail.SetID)
	if err != nil || gone != nil {
		t.Fatalf("词汇集应已删除: err=%v set=%+v", err, gone)
	}

	var wordCount, exampleCount int64
	database.DB.Model(&VocabWord{}).Where("vocab_set_id = ?", detail.SetID).Count(&wordCount)
	if wordCount != 0 {
		t.Fatalf("单词应被级联删除, got %d", wordCount)
	}
	for _, w := range detail.Words {
		var c int64
		database.DB.Model(&VocabExample{}).Where("word_id = ?", w.WordID).Count(&c)
		exampleCount += c
	}
	if exampleCount != 0 {
		t.Fatalf("例句应被级联删除, got %d", exampleCount)
	}

	// 其他词汇集不受影响
	kept, err := GetSetDetail(database.DB, keep.SetID)
	if err != nil || kept == nil || len(kept.Words) != 2 {
		t.Fatalf("其他词汇集不应受影响: err=%v detail=%+v", err, kept)
	}

	// 重复删除是幂等的成功
	if err := DeleteSet(database.DB, detail.SetID); err != nil {
		t.Fatalf("重复删除应为无副作用的成功: %v", err)
	}
}
