package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chiaobuy/liango/internal/service"
)

type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// BillsXLSX 导出对帐单 Excel
func (h *ExportHandler) BillsXLSX(c *gin.Context) {
	f, err := h.svc.BillsWorkbook()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	filename := fmt.Sprintf("對帳單_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": "导出失败: " + err.Error()})
	}
}

// OrdersCSV 导出活跃订单 CSV（Big5 编码，方便旧版 Excel 直接打开）
func (h *ExportHandler) OrdersCSV(c *gin.Context) {
	data, err := h.svc.OrdersCSVBig5()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	filename := fmt.Sprintf("訂單_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(http.StatusOK, "text/csv; charset=big5", data)
}
