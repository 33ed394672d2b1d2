package vocab

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexileap/vocab-games-backend/internal/platform/database"
)

// CreateSetRequestBody 定义了创建词汇集时请求体的JSON结构
type CreateSetRequestBody struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Grade       string         `json:"grade"`
	Words       []NewWordInput `json:"words"`
}

// ListVocabSets 处理 GET /api/vocab
func ListVocabSets(c *gin.Context) {
	sets, err := ListSets(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vocabulary sets"})
		return
	}
	c.JSON(http.StatusOK, sets)
}

// GetVocabSet 处理 GET /api/vocab/:id
func GetVocabSet(c *gin.Context) {
	detail, err := GetSetDetail(database.DB, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vocabulary set"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vocabulary set not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateVocabSet 处理 POST /api/vocab/create
func CreateVocabSet(c *gin.Context) {
	var body CreateSetRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	detail, err := CreateSet(database.DB, body.Name, body.Description, body.Grade, body.Words)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vocabulary set"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"vocabSet": detail,
	})
}

// ListVocabWords 处理 GET /api/vocab/words
func ListVocabWords(c *gin.Context) {
	words, err := ListAllWords(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch words"})
		return
	}
	c.JSON(http.StatusOK, words)
}

// UpdateVocabWord 处理 PATCH /api/vocab/words/:wordId
func UpdateVocabWord(c *gin.Context) {
	var body UpdateWordInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	word, err := UpdateWord(database.DB, c.Param("wordId"), body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update word"})
		return
	}
	if word == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Word not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"word":    word,
	})
}

// DeleteVocabWord 处理 DELETE /api/vocab/words/:wordId
func DeleteVocabWord(c *gin.Context) {
	if err := DeleteWord(database.DB, c.Param("wordId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete word"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Word deleted"})
}

// DeleteVocabSet 处理 DELETE /api/vocab/:id
func DeleteVocabSet(c *gin.Context) {
	if err := DeleteSet(database.DB, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vocabulary set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vocabulary set deleted"})
}
