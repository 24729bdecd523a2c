package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Raphi52/OnlyVIP-sub000/internal/http/handler"
)

func SalesRouter(router *gin.RouterGroup, handler *handler.SalesHandler) {
	router.POST("", handler.Record)
}
