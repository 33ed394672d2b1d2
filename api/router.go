package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lexileap/vocab-games-backend/internal/mastery"
	"github.com/lexileap/vocab-games-backend/internal/profile"
	"github.com/lexileap/vocab-games-backend/internal/progress"
	"github.com/lexileap/vocab-games-backend/internal/vocab"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 游戏进度相关的路由组 /api/games
		gameRoutes := api.Group("/games")
		{
			gameRoutes.POST("/progress", progress.RecordProgress)
			gameRoutes.DELETE("/progress", progress.ResetProgress)
			gameRoutes.GET("/profile", progress.GetProfile)
			gameRoutes.GET("/word-progress", progress.GetWordProgress)
			gameRoutes.GET("/attempts", progress.GetRecentAttempts)
			gameRoutes.GET("/leaderboard", profile.GetLeaderboard)
		}

		// 闪卡学习流的掌握度路由 /api/progress
		api.POST("/progress", mastery.UpdateProgress)
		api.GET("/progress", mastery.GetProgress)

		// 词汇集目录相关的路由组 /api/vocab
		vocabRoutes := api.Group("/vocab")
		{
			vocabRoutes.GET("", vocab.ListVocabSets)
			vocabRoutes.POST("/create", vocab.CreateVocabSet)
			vocabRoutes.GET("/words", vocab.ListVocabWords)
			vocabRoutes.PATCH("/words/:wordId", vocab.UpdateVocabWord)
			vocabRoutes.DELETE("/words/:wordId", vocab.DeleteVocabWord)
			vocabRoutes.GET("/:id", vocab.GetVocabSet)
			vocabRoutes.DELETE("/:id", vocab.DeleteVocabSet)
		}
	}
}
