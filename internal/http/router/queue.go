package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Raphi52/OnlyVIP-sub000/internal/http/handler"
)

func QueueRouter(router *gin.RouterGroup, handler *handler.QueueHandler) {
	router.POST("/process", handler.Process)
	router.POST("/process-message", handler.ProcessMessage)
}
