package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiaobuy/liango/internal/service"
)

type BillingHandler struct {
	svc *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

func (h *BillingHandler) List(c *gin.Context) {
	bills, err := h.svc.ListBills()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": bills})
}

func (h *BillingHandler) Get(c *gin.Context) {
	bill, err := h.svc.GetBill(c.Param("customerId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	if bill == nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "该客户目前没有可对账的订单"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": bill})
}

type renderMessageRequest struct {
	SessionName string `json:"session_name"`
}

// RenderMessage 生成可直接复制的催款/对帐讯息
func (h *BillingHandler) RenderMessage(c *gin.Context) {
	var req renderMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	message, err := h.svc.RenderMessage(c.Param("customerId"), req.SessionName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"message": message}})
}
