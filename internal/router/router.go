package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"focusd/backend/internal/handler"
	"focusd/backend/internal/middleware"
)

func New(
	taskHandler *handler.TaskHandler,
	focusHandler *handler.FocusHandler,
	statsHandler *handler.StatsHandler,
	logger *zap.SugaredLogger,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestLogger(logger), gin.Recovery(), middleware.CORS(corsOrigins))

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	engine.GET("/", health)
	engine.GET("/health", health)

	engine.GET("/tasks", taskHandler.List)
	engine.POST("/tasks", taskHandler.Create)
	engine.PATCH("/tasks/:id", taskHandler.Update)
	engine.DELETE("/tasks/:id", taskHandler.Delete)

	engine.GET("/stats/overview", statsHandler.Overview)

	engine.POST("/focus/start", focusHandler.Start)
	engine.POST("/focus/stop", focusHandler.Stop)
	engine.GET("/focus/sessions", focusHandler.ListSessions)

	return engine
}
