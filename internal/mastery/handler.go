package mastery

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lexileap/vocab-games-backend/internal/platform/database"
)

// UpdateProgressRequestBody 定义了闪卡学习流提交进度时请求体的JSON结构
type UpdateProgressRequestBody struct {
	WordID    string  `json:"wordId"`
	IsCorrect *bool   `json:"isCorrect"`
	UserID    *string `json:"userId"`
}

// UpdateProgress 处理 POST /api/progress
// 这是掌握度规则的闪卡学习入口，和游戏答题入口共用ApplyDelta。
func UpdateProgress(c *gin.Context) {
	var body UpdateProgressRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	if strings.TrimSpace(body.WordID) == "" || body.IsCorrect == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wordId and isCorrect (boolean) are required"})
		return
	}

	userID := ""
	if body.UserID != nil {
		userID = *body.UserID
	}

	progress, err := ApplyDelta(database.DB, body.WordID, userID, *body.IsCorrect, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update progress"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"progress": progress.Summarize(),
	})
}

// GetProgress 处理 GET /api/progress
// 带wordId参数时返回单词的掌握度记录，否则返回最近学习的记录列表。
// 缺失的记录是"尚未学习"的正常状态，返回null而不是404。
func GetProgress(c *gin.Context) {
	wordID := c.Query("wordId")
	userID := c.Query("userId")

	if wordID != "" {
		progress, err := FindByWord(database.DB, wordID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
			return
		}
		if progress == nil {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusOK, progress.Summarize())
		return
	}

	rows, err := ListRecent(database.DB, userID, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch progress"})
		return
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].Summarize())
	}
	c.JSON(http.StatusOK, records)
}
