package progress

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lexileap/vocab-games-backend/internal/mastery"
	"github.com/lexileap/vocab-games-backend/internal/platform/database"
	"github.com/lexileap/vocab-games-backend/internal/profile"
	"github.com/lexileap/vocab-games-backend/internal/vocab"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// timeNow 是进度账本的时钟，测试中可替换。
var timeNow = time.Now

// --- 模块配置 ---

// allowedModes 是合法游戏模式的集合，completionThreshold 是模式完成阈值。
// 两者都来自配置，缺省值见 Configure。
var (
	allowedModes        = modeSet(DefaultModes)
	completionThreshold = 3
)

func modeSet(modes []string) map[string]bool {
	set := make(map[string]bool, len(modes))
	for _, m := range modes {
		set[m] = true
	}
	return set
}

// Configure 注入progress模块的业务配置。
func Configure(modes []string, threshold int) {
	if len(modes) > 0 {
		allowedModes = modeSet(modes)
	}
	if threshold > 0 {
		completionThreshold = threshold
	}
}

// IsValidMode 判断一个模式是否在配置的合法集合内。
func IsValidMode(mode string) bool {
	return allowedModes[mode]
}

// --- 错误类型 ---

// ValidationError 表示请求参数缺失或非法。
// 它在任何数据库操作开始之前返回，没有副作用，调用方应修正请求而不是重试。
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// lockForUpdate 在支持行锁的驱动上追加 FOR UPDATE 子句。
// SQLite不支持该语法，依赖其单写者模型达到同样的串行化效果。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// --- recordAnswer ---

// RecordAnswerInput 是单次答题事件的输入。
type RecordAnswerInput struct {
	VocabSetID    string
	ProfileKey    string
	Mode          string
	Correct       bool
	PointsAwarded float64
	WordID        string
	TimeRemaining *float64
}

// RecordAnswerResult 是recordAnswer的返回值：更新后的档案
// 及该档案在该词汇集下的全部模式进度。
type RecordAnswerResult struct {
	Profile      profile.Profile
	ModeProgress []ModeProgress
}

// RecordAnswer 是进度账本的核心操作。
// 它在一个数据库事务中原子地完成：档案的查找/创建与聚合更新（积分、
// 计数器、连击、连续天数）、模式进度的upsert与一次性完成判定，以及
// 提交带wordId时的答题日志追加和掌握度增量。事务内任何一步失败都会
// 整体回滚，外部观察不到部分写入。
func RecordAnswer(input RecordAnswerInput) (*RecordAnswerResult, error) {
	// 1. 参数验证，失败时事务从未开始
	if strings.TrimSpace(input.VocabSetID) == "" {
		return nil, validationErrorf("vocabSetId is required")
	}
	if strings.TrimSpace(input.Mode) == "" {
		return nil, validationErrorf("mode is required")
	}
	if !IsValidMode(input.Mode) {
		return nil, validationErrorf("无效的游戏模式: %s", input.Mode)
	}

	key := profile.NormalizeKey(input.ProfileKey)
	points := sanitizePoints(input.PointsAwarded)
	now := timeNow().UTC()

	var result RecordAnswerResult

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 2. 查找或创建档案
		p, err := profile.FindOrCreateTx(lockForUpdate(tx), key)
		if err != nil {
			return err
		}

		// 3. 计算连击与连续天数的状态转移
		nextCombo := 0
		if input.Correct {
			nextCombo = p.CurrentCombo + 1
		}
		nextBestCombo := p.BestCombo
		if nextCombo > nextBestCombo {
			nextBestCombo = nextCombo
		}

		// 连续天数和LastPlayedAt只在答对时才会变化
		if input.Correct {
			p.Streak = nextStreakValue(p.Streak, p.LastPlayedAt, now)
			lastPlayed := now
			p.LastPlayedAt = &lastPlayed
		}

		// 4. 更新档案聚合
		p.Points += points
		p.QuestionsAttempted++
		if input.Correct {
			p.QuestionsCorrect++
		}
		p.CurrentCombo = nextCombo
		p.BestCombo = nextBestCombo

		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("无法更新档案 %s: %w", key, err)
		}

		// 5. upsert模式进度并做一次性的完成判定
		if err := upsertModeProgress(tx, p.ID, input.VocabSetID, input.Mode, input.Correct, now); err != nil {
			return err
		}

		// 6. 提交带wordId时，追加答题日志并应用掌握度增量
		if wordID := strings.TrimSpace(input.WordID); wordID != "" {
			attempt := Attempt{
				ProfileID:     p.ID,
				VocabSetID:    input.VocabSetID,
				WordID:        wordID,
				Mode:          input.Mode,
				Correct:       input.Correct,
				PointsAwarded: points,
				TimeRemaining: input.TimeRemaining,
			}
			if err := tx.Create(&attempt).Error; err != nil {
				return fmt.Errorf("无法记录答题日志: %w", err)
			}
			if _, err := mastery.ApplyDelta(tx, wordID, "", input.Correct, now); err != nil {
				return err
			}
		}

		// 7. 回读该词汇集下的全部模式进度
		var rows []ModeProgress
		if err := tx.Where("profile_id = ? AND vocab_set_id = ?", p.ID, input.VocabSetID).Find(&rows).Error; err != nil {
			return fmt.Errorf("无法读取模式进度: %w", err)
		}

		result.Profile = *p
		result.ModeProgress = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 事务已提交，同步派生的排行榜缓存（失败不影响结果）
	profile.SyncLeaderboard(&result.Profile)

	return &result, nil
}

// upsertModeProgress 对 (profileID, setID, mode) 的进度行执行查找或创建，
// 然后做一次性的完成判定。并发的首次创建由组合唯一索引仲裁，
// 冲突方退化为读取后更新。
func upsertModeProgress(tx *gorm.DB, profileID uint, setID, mode string, correct bool, now time.Time) error {
	var record ModeProgress
	err := lockForUpdate(tx).Where(
		"profile_id = ? AND vocab_set_id = ? AND mode = ?", profileID, setID, mode,
	).First(&record).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("无法查询模式进度: %w", err)
		}

		record = ModeProgress{
			ProfileID:    profileID,
			VocabSetID:   setID,
			Mode:         mode,
			Attempted:    1,
			LastPlayedAt: &now,
		}
		if correct {
			record.Correct = 1
		}
		if record.Correct >= completionThreshold {
			completed := now
			record.CompletedAt = &completed
		}

		// 在savepoint中创建：PostgreSQL的唯一冲突会中止整个事务，
		// 只有把冲突限制在savepoint内，下面的回退读取才能执行
		if err := tx.Transaction(func(tx2 *gorm.DB) error {
			return tx2.Create(&record).Error
		}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 竞争中落败，退化为读取后更新
				if err := tx.Where(
					"profile_id = ? AND vocab_set_id = ? AND mode = ?", profileID, setID, mode,
				).First(&record).Error; err != nil {
					return fmt.Errorf("无法读取并发创建的模式进度: %w", err)
				}
				return updateModeProgress(tx, &record, correct, now)
			}
			return fmt.Errorf("无法创建模式进度: %w", err)
		}
		return nil
	}

	return updateModeProgress(tx, &record, correct, now)
}

func updateModeProgress(tx *gorm.DB, record *ModeProgress, correct bool, now time.Time) error {
	record.Attempted++
	if correct {
		record.Correct++
	}
	record.LastPlayedAt = &now

	// 完成是单向转移：一旦设置，后续答题永不触碰
	if record.CompletedAt == nil && record.Correct >= completionThreshold {
		completed := now
		record.CompletedAt = &completed
	}

	if err := tx.Save(record).Error; err != nil {
		return fmt.Errorf("无法更新模式进度: %w", err)
	}
	return nil
}

// --- resetModeProgress ---

// ResetModeProgress 删除一个档案在指定词汇集下的全部模式进度行。
// 档案的聚合字段（积分、连续天数等）有意保持不动：这是针对单个
// 词汇集的练习轨迹重置，不是档案重置。档案不存在时是幂等的成功。
func ResetModeProgress(vocabSetID, profileKey string) error {
	if strings.TrimSpace(vocabSetID) == "" {
		return validationErrorf("vocabSetId is required")
	}

	key := profile.NormalizeKey(profileKey)
	p, err := profile.FindByKey(database.DB, key)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	// 必须物理删除：软删除的墓碑仍被组合唯一索引覆盖，
	// 会让重置后的下一次创建永远撞上重复键
	if err := database.DB.Unscoped().Where(
		"profile_id = ? AND vocab_set_id = ?", p.ID, vocabSetID,
	).Delete(&ModeProgress{}).Error; err != nil {
		return fmt.Errorf("无法删除模式进度: %w", err)
	}
	return nil
}

// --- 读路径 ---

// ProfileWithProgress 是档案读取操作的返回值。
type ProfileWithProgress struct {
	Profile      profile.Profile
	ModeProgress []ModeProgress
}

// GetProfileWithProgress 读取（必要时惰性创建）档案，并列出其模式进度。
// vocabSetID为空时返回全部词汇集的进度。纯读取加惰性创建，没有任何计分逻辑。
func GetProfileWithProgress(vocabSetID, profileKey string) (*ProfileWithProgress, error) {
	key := profile.NormalizeKey(profileKey)

	var result ProfileWithProgress
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		p, err := profile.FindOrCreateTx(tx, key)
		if err != nil {
			return err
		}

		query := tx.Where("profile_id = ?", p.ID)
		if strings.TrimSpace(vocabSetID) != "" {
			query = query.Where("vocab_set_id = ?", vocabSetID)
		}

		var rows []ModeProgress
		if err := query.Find(&rows).Error; err != nil {
			return fmt.Errorf("无法读取模式进度: %w", err)
		}

		result.Profile = *p
		result.ModeProgress = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RecentAttempts 返回一个档案在指定词汇集下最近minutes分钟内的答题日志，
// 按时间降序，最多200条。档案不存在时返回空列表。
func RecentAttempts(vocabSetID, profileKey string, minutes int, includeIncorrect bool) ([]Attempt, error) {
	if strings.TrimSpace(vocabSetID) == "" {
		return nil, validationErrorf("setId is required")
	}
	// 上限一周：更大的值没有业务意义，且乘以time.Minute会溢出，
	// 把查询窗口翻转到未来
	const maxWindowMinutes = 7 * 24 * 60
	if minutes < 1 {
		minutes = 1
	}
	if minutes > maxWindowMinutes {
		minutes = maxWindowMinutes
	}

	key := profile.NormalizeKey(profileKey)
	p, err := profile.FindByKey(database.DB, key)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return []Attempt{}, nil
	}

	since := timeNow().UTC().Add(-time.Duration(minutes) * time.Minute)
	query := database.DB.Where(
		"profile_id = ? AND vocab_set_id = ? AND created_at >= ?", p.ID, vocabSetID, since,
	)
	if !includeIncorrect {
		query = query.Where("correct = ?", true)
	}

	var attempts []Attempt
	if err := query.Order("created_at DESC").Limit(200).Find(&attempts).Error; err != nil {
		return nil, fmt.Errorf("无法查询答题日志: %w", err)
	}
	return attempts, nil
}

// WordProgressStats 是单词级分析读取的单行结构。
type WordProgressStats struct {
	WordID         string     `json:"wordId"`
	Word           string     `json:"word"`
	Definition     string     `json:"definition"`
	MasteryLevel   int        `json:"masteryLevel"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	TotalAttempts  int        `json:"totalAttempts"`
	Accuracy       int        `json:"accuracy"`
	LastStudied    *time.Time `json:"lastStudied"`
}

// GetWordProgressStats 返回词汇集内每个单词的掌握度与答题统计，
// 按掌握度升序、再按正确率升序排列，最薄弱的单词排在最前。
// 正确率来自游戏答题日志；掌握度来自共享的掌握度记录，两者可以
// 合理地不一致（掌握度还会被闪卡学习流更新）。档案不存在时返回
// 全部单词的零值统计。纯读取，无任何变更。
func GetWordProgressStats(vocabSetID, profileKey string) ([]WordProgressStats, error) {
	if strings.TrimSpace(vocabSetID) == "" {
		return nil, validationErrorf("vocabSetId is required")
	}

	words, err := vocab.WordsBySet(database.DB, vocabSetID)
	if err != nil {
		return nil, err
	}

	key := profile.NormalizeKey(profileKey)
	p, err := profile.FindByKey(database.DB, key)
	if err != nil {
		return nil, err
	}

	stats := make([]WordProgressStats, 0, len(words))

	if p == nil {
		// 从未玩过：返回零值统计而不是错误
		for _, w := range words {
			stats = append(stats, WordProgressStats{
				WordID:     w.WordID,
				Word:       w.Word,
				Definition: w.Definition,
			})
		}
		return stats, nil
	}

	wordIDs := make([]string, len(words))
	for i, w := range words {
		wordIDs[i] = w.WordID
	}

	masteries, err := mastery.ListByWords(database.DB, wordIDs, "")
	if err != nil {
		return nil, err
	}

	aggregates, err := attemptAggregates(p.ID, vocabSetID)
	if err != nil {
		return nil, err
	}

	for _, w := range words {
		stat := WordProgressStats{
			WordID:     w.WordID,
			Word:       w.Word,
			Definition: w.Definition,
		}
		if m, ok := masteries[w.WordID]; ok {
			stat.MasteryLevel = m.MasteryLevel
			lastStudied := m.LastStudied
			stat.LastStudied = &lastStudied
		}
		if agg, ok := aggregates[w.WordID]; ok {
			stat.TotalAttempts = agg.Total
			stat.CorrectCount = agg.Correct
			stat.IncorrectCount = agg.Total - agg.Correct
			if agg.Total > 0 {
				stat.Accuracy = int(math.Round(100 * float64(agg.Correct) / float64(agg.Total)))
			}
		}
		stats = append(stats, stat)
	}

	// 最薄弱的单词排最前；WordsBySet的字母序让并列时保持稳定
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].MasteryLevel != stats[j].MasteryLevel {
			return stats[i].MasteryLevel < stats[j].MasteryLevel
		}
		return stats[i].Accuracy < stats[j].Accuracy
	})

	return stats, nil
}

type attemptAggregate struct {
	WordID  string
	Total   int
	Correct int
}

func attemptAggregates(profileID uint, vocabSetID string) (map[string]attemptAggregate, error) {
	var rows []attemptAggregate
	err := database.DB.Model(&Attempt{}).
		Select("word_id, COUNT(*) AS total, SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct").
		Where("profile_id = ? AND vocab_set_id = ?", profileID, vocabSetID).
		Group("word_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("无法聚合答题日志: %w", err)
	}

	result := make(map[string]attemptAggregate, len(rows))
	for _, row := range rows {
		result[row.WordID] = row
	}
	return result, nil
}
