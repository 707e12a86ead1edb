package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chiaobuy/liango/internal/service"
)

type ShoppingHandler struct {
	svc *service.ShoppingService
}

func NewShoppingHandler(svc *service.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{svc: svc}
}

// List 汇总当前连线的采购清单（按商品+规格分组）
func (h *ShoppingHandler) List(c *gin.Context) {
	groups, err := h.svc.GetShoppingList()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": groups})
}

// Reallocate 录入实际买到数量，按下单先后重新分配
func (h *ShoppingHandler) Reallocate(c *gin.Context) {
	var req service.ReallocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	updates, err := h.svc.Reallocate(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": updates})
}

// Increment 追加买到数量，只分配新增部分
func (h *ShoppingHandler) Increment(c *gin.Context) {
	var req service.IncrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	result, err := h.svc.Increment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}
