package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiaobuy/liango/internal/service"
)

type AIParseHandler struct {
	svc *service.AIParseService
}

func NewAIParseHandler(svc *service.AIParseService) *AIParseHandler {
	return &AIParseHandler{svc: svc}
}

// ParseOrder 把聊天截图/文字交给大模型解析成订单草稿，仅供前端预填，不直接落库
func (h *AIParseHandler) ParseOrder(c *gin.Context) {
	var req service.ParseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	draft, err := h.svc.ParseOrder(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": draft})
}
