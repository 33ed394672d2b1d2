package mastery

import (
	"testing"
	"time"

	"github.com/lexileap/vocab-games-backend/internal/platform/database"
	"github.com/lexileap/vocab-games-backend/internal/platform/database/dbtest"
)

func TestApplyDeltaCreate(t *testing.T) {
	dbtest.Use(t, &StudyProgress{})
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	// 首次答对从1级起步
	p, err := ApplyDelta(database.DB, "w-apple", "", true, now)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if p.MasteryLevel != 1 || p.CorrectCount != 1 || p.IncorrectCount != 0 {
		t.Fatalf("首次答对后记录错误: %+v", p)
	}
	if !p.LastStudied.Equal(now) {
		t.Fatalf("LastStudied应为传入时间, got %v", p.LastStudied)
	}

	// 首次答错停在0级
	p, err = ApplyDelta(database.DB, "w-brave", "", false, now)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if p.MasteryLevel != 0 || p.IncorrectCount != 1 || p.CorrectCount != 0 {
		t.Fatalf("首次答错后记录错误: %+v", p)
	}
}

func TestApplyDeltaClamp(t *testing.T) {
	dbtest.Use(t, &StudyProgress{})
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	// 连续答对8次，等级饱和在上界5
	var p *StudyProgress
	var err error
	for i := 0; i < 8; i++ {
		p, err = ApplyDelta(database.DB, "w-apple", "", true, now)
		if err != nil {
			t.Fatalf("第%d次ApplyDelta: %v", i+1, err)
		}
	}
	if p.MasteryLevel != MaxLevel {
		t.Fatalf("等级应饱和在%d, got %d", MaxLevel, p.MasteryLevel)
	}
	if p.CorrectCount != 8 {
		t.Fatalf("计数器不应被饱和截断, got %d", p.CorrectCount)
	}

	// 连续答错8次，等级饱和在下界0
	for i := 0; i < 8; i++ {
		p, err = ApplyDelta(database.DB, "w-apple", "", false, now)
		if err != nil {
			t.Fatalf("第%d次ApplyDelta: %v", i+1, err)
		}
	}
	if p.MasteryLevel != MinLevel {
		t.Fatalf("等级应饱和在%d, got %d", MinLevel, p.MasteryLevel)
	}
	if p.IncorrectCount != 8 {
		t.Fatalf("计数器不应被饱和截断, got %d", p.IncorrectCount)
	}
}

// TestApplyDeltaSingleRow 验证同一单词的两个入口（闪卡学习与游戏答题
// 的空身份提交）命中同一条记录而不是各自创建。
func TestApplyDeltaSingleRow(t *testing.T) {
	dbtest.Use(t, &StudyProgress{})
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := ApplyDelta(database.DB, "w-apple", "", true, now); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if _, err := ApplyDelta(database.DB, "w-apple", "", true, now.Add(time.Minute)); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}

	var count int64
	database.DB.Model(&StudyProgress{}).Count(&count)
	if count != 1 {
		t.Fatalf("同一(word,user)应只有一条记录, got %d", count)
	}

	p, err := FindByWord(database.DB, "w-apple", "")
	if err != nil {
		t.Fatalf("FindByWord: %v", err)
	}
	if p.MasteryLevel != 2 || p.CorrectCount != 2 {
		t.Fatalf("两次答对应累积在同一条记录上: %+v", p)
	}

	// 不同身份是独立的记录
	if _, err := ApplyDelta(database.DB, "w-apple", "student-7", true, now); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	database.DB.Model(&StudyProgress{}).Count(&count)
	if count != 2 {
		t.Fatalf("不同身份应各自有记录, got %d", count)
	}
}

func TestFindByWordMissing(t *testing.T) {
	dbtest.Use(t, &StudyProgress{})

	p, err := FindByWord(database.DB, "w-ghost", "")
	if err != nil {
		t.Fatalf("FindByWord: %v", err)
	}
	if p != nil {
		t.Fatalf("不存在的记录应返回nil, got %+v", p)
	}
}

func TestListByWords(t *testing.T) {
	dbtest.Use(t, &StudyProgress{})
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := ApplyDelta(database.DB, "w-apple", "", true, now); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if _, err := ApplyDelta(database.DB, "w-brave", "", false, now); err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}

	result, err := ListByWords(database.DB, []string{"w-apple", "w-brave", "w-ghost"}, "")
	if err != nil {
		t.Fatalf("ListByWords: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("应命中2条记录, got %d", len(result))
	}
	if result["w-apple"].MasteryLevel != 1 || result["w-brave"].MasteryLevel != 0 {
		t.Fatalf("映射内容错误: %+v", result)
	}

	empty, err := ListByWords(database.DB, nil, "")
	if err != nil || len(empty) != 0 {
		t.Fatalf("空输入应返回空映射: err=%v len=%d", err, len(empty))
	}
}

func TestRecordNullableUserID(t *testing.T) {
	p := StudyProgress{WordID: "w-apple", MasteryLevel: 2}
	record := p.Summarize()
	if record.UserID != nil {
		t.Fatalf("空身份应序列化为null, got %v", *record.UserID)
	}

	p.UserID = "student-7"
	record = p.Summarize()
	if record.UserID == nil || *record.UserID != "student-7" {
		t.Fatalf("非空身份应原样返回, got %v", record.UserID)
	}
}
