package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"

	"github.com/chiaobuy/liango/internal/repository"
)

// ExportService 报表导出：对账单 Excel、订单 CSV（Big5，给台湾的旧版 Excel 直开不乱码）
type ExportService struct {
	billing     *BillingService
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
}

func NewExportService(billing *BillingService, orderRepo *repository.OrderRepository, productRepo *repository.ProductRepository) *ExportService {
	return &ExportService{billing: billing, orderRepo: orderRepo, productRepo: productRepo}
}

var billExportHeaders = []string{"客戶", "品項數", "小計", "運費", "免運", "面交折抵", "應付金額", "已付清", "付款方式", "備註"}

// BillsWorkbook 把当前对账单汇出成 Excel 工作簿
func (s *ExportService) BillsWorkbook() (*excelize.File, error) {
	bills, err := s.billing.ListBills()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "對帳單"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range billExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for row, bill := range bills {
		free := ""
		if bill.IsFreeShipping {
			free = "是"
		}
		paid := ""
		if bill.IsFullyPaid {
			paid = "是"
		}
		values := []interface{}{
			bill.CustomerName,
			len(bill.Items),
			bill.Subtotal,
			bill.ShippingFee,
			free,
			bill.PickupPayment,
			bill.RemittanceAmount,
			paid,
			bill.PaymentMethod,
			bill.PaymentNote,
		}
		for col, v := range values {
			name, _ := excelize.ColumnNumberToName(col + 1)
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", name, row+2), v)
		}
	}
	return f, nil
}

// OrdersCSVBig5 导出活跃订单 CSV，Big5 编码
func (s *ExportService) OrdersCSVBig5() ([]byte, error) {
	products, err := s.productRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("读取商品失败: %w", err)
	}
	productNames := make(map[string]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}

	orders, err := s.orderRepo.ListActive()
	if err != nil {
		return nil, fmt.Errorf("读取订单失败: %w", err)
	}

	var utf8Buf bytes.Buffer
	w := csv.NewWriter(&utf8Buf)
	w.Write([]string{"訂單ID", "商品", "變體", "數量", "已買到", "狀態", "已付款", "下單時間"})
	for _, o := range orders {
		name := productNames[o.ProductID]
		if name == "" {
			name = o.ProductID // 商品已删除的陈旧引用，保留 ID 供人工核对
		}
		paid := ""
		if o.IsPaid {
			paid = "Y"
		}
		w.Write([]string{
			o.ID,
			name,
			o.Variant,
			strconv.Itoa(o.Quantity),
			strconv.Itoa(o.QuantityBought),
			o.Status,
			paid,
			o.OrderedAt.Format("2006-01-02 15:04"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("写入 CSV 失败: %w", err)
	}

	var big5Buf bytes.Buffer
	encoder := transform.NewWriter(&big5Buf, traditionalchinese.Big5.NewEncoder())
	if _, err := encoder.Write(utf8Buf.Bytes()); err != nil {
		return nil, fmt.Errorf("Big5 编码失败: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("Big5 编码失败: %w", err)
	}
	return big5Buf.Bytes(), nil
}
