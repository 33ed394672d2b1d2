package progress

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ProgressRequestBody 定义了游戏端提交答题结果时请求体的JSON结构
type ProgressRequestBody struct {
	VocabSetID    string   `json:"vocabSetId"`
	ProfileKey    string   `json:"profileKey"`
	Mode          string   `json:"mode"`
	Correct       bool     `json:"correct"`
	PointsAwarded float64  `json:"pointsAwarded"`
	WordID        string   `json:"wordId"`
	TimeRemaining *float64 `json:"timeRemaining"`
}

// respondError 按错误分类生成HTTP响应：
// 参数错误对调用方可见且不可重试；持久化错误只暴露笼统消息，细节进日志。
func respondError(c *gin.Context, err error, genericMsg string) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
		return
	}
	fmt.Printf("错误: %s: %v\n", genericMsg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": genericMsg})
}

// RecordProgress 处理 POST /api/games/progress
func RecordProgress(c *gin.Context) {
	var body ProgressRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	result, err := RecordAnswer(RecordAnswerInput{
		VocabSetID:    body.VocabSetID,
		ProfileKey:    body.ProfileKey,
		Mode:          body.Mode,
		Correct:       body.Correct,
		PointsAwarded: body.PointsAwarded,
		WordID:        body.WordID,
		TimeRemaining: body.TimeRemaining,
	})
	if err != nil {
		respondError(c, err, "Failed to record game progress")
		return
	}

	records := make([]ModeProgressRecord, 0, len(result.ModeProgress))
	for i := range result.ModeProgress {
		records = append(records, result.ModeProgress[i].Summarize())
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      result.Profile.Summarize(),
		"modeProgress": records,
	})
}

// ResetProgress 处理 DELETE /api/games/progress
// 只删除指定词汇集的练习轨迹，档案聚合保持不变。幂等。
func ResetProgress(c *gin.Context) {
	vocabSetID := c.Query("vocabSetId")
	profileKey := c.Query("profileKey")

	if err := ResetModeProgress(vocabSetID, profileKey); err != nil {
		respondError(c, err, "Failed to reset game progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game progress reset"})
}

// GetProfile 处理 GET /api/games/profile
// 惰性创建档案并返回其模式进度，setId参数可选。
func GetProfile(c *gin.Context) {
	result, err := GetProfileWithProgress(c.Query("setId"), c.Query("profileKey"))
	if err != nil {
		respondError(c, err, "Failed to fetch game profile")
		return
	}

	records := make([]ModeProgressRecord, 0, len(result.ModeProgress))
	for i := range result.ModeProgress {
		records = append(records, result.ModeProgress[i].Summarize())
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":      result.Profile.Summarize(),
		"modeProgress": records,
	})
}

// GetWordProgress 处理 GET /api/games/word-progress
func GetWordProgress(c *gin.Context) {
	stats, err := GetWordProgressStats(c.Query("vocabSetId"), c.Query("profileKey"))
	if err != nil {
		respondError(c, err, "Failed to fetch word progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{"words": stats})
}

// GetRecentAttempts 处理 GET /api/games/attempts
func GetRecentAttempts(c *gin.Context) {
	minutes := 30
	if raw := c.Query("minutes"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			minutes = parsed
		}
	}
	includeIncorrect := !strings.EqualFold(c.DefaultQuery("includeIncorrect", "true"), "false")

	attempts, err := RecentAttempts(c.Query("setId"), c.Query("profileKey"), minutes, includeIncorrect)
	if err != nil {
		respondError(c, err, "Failed to fetch recent attempts")
		return
	}

	records := make([]AttemptRecord, 0, len(attempts))
	for i := range attempts {
		records = append(records, attempts[i].Summarize())
	}

	c.JSON(http.StatusOK, gin.H{"attempts": records})
}
