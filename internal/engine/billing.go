package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chiaobuy/liango/internal/entity"
)

// BillItem 对账单明细行（按实际买到量计价）
type BillItem struct {
	OrderID   string `json:"order_id"`
	Name      string `json:"name"`
	Variant   string `json:"variant"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
	LineTotal int    `json:"line_total"`
}

// Bill 单一客户的对账单
type Bill struct {
	CustomerID       string     `json:"customer_id"`
	CustomerName     string     `json:"customer_name"`
	Items            []BillItem `json:"items"`
	Subtotal         int        `json:"subtotal"`
	IsFreeShipping   bool       `json:"is_free_shipping"`
	ShippingFee      int        `json:"shipping_fee"`
	PickupPayment    int        `json:"pickup_payment"`
	RemittanceAmount int        `json:"remittance_amount"`
	IsFullyPaid      bool       `json:"is_fully_paid"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentNote      string     `json:"payment_note"`
	// SkippedLines 因商品已删除而被跳过的订单数，调用方应记录警告而不是整单失败
	SkippedLines int `json:"skipped_lines"`
}

// BuildBill 依客户的活跃订单产出对账单。
// 只计入 QuantityBought > 0 的订单；没有可计费订单时返回 nil。
// 引用已删除商品的订单跳过该行并累计 SkippedLines，单行坏引用不拖垮整张单。
// 明细顺序保持 activeOrders 的传入顺序，不重排。
func BuildBill(customer entity.Customer, activeOrders []entity.Order, products []entity.Product, settings entity.Settings) *Bill {
	productByID := make(map[string]entity.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	bill := &Bill{
		CustomerID:   customer.ID,
		CustomerName: customer.LineName,
		IsFullyPaid:  true,
	}

	billable := 0
	for _, o := range activeOrders {
		if o.IsArchived || o.QuantityBought <= 0 {
			continue
		}
		billable++
		p, ok := productByID[o.ProductID]
		if !ok {
			bill.SkippedLines++
			continue
		}
		line := BillItem{
			OrderID:   o.ID,
			Name:      p.Name,
			Variant:   o.Variant,
			Quantity:  o.QuantityBought,
			UnitPrice: p.PriceTWD,
			LineTotal: p.PriceTWD * o.QuantityBought,
		}
		bill.Items = append(bill.Items, line)
		bill.Subtotal += line.LineTotal

		if !o.IsPaid {
			bill.IsFullyPaid = false
		} else if bill.PaymentMethod == "" && bill.PaymentNote == "" {
			// 多张订单预期是一笔付清，取任一已付订单做代表显示值
			bill.PaymentMethod = o.PaymentMethod
			bill.PaymentNote = o.PaymentNote
		}
	}
	if billable == 0 {
		return nil
	}

	bill.IsFreeShipping = bill.Subtotal >= settings.FreeShippingThreshold
	bill.PickupPayment = settings.PickupPayment
	if !bill.IsFreeShipping {
		bill.ShippingFee = settings.ShippingFee
	}
	bill.RemittanceAmount = bill.Subtotal - bill.PickupPayment - bill.ShippingFee
	if bill.RemittanceAmount < 0 {
		bill.RemittanceAmount = 0
	}
	return bill
}

// SortBills 未付清的客户排前面，已付清的排后面，其余保持稳定
func SortBills(bills []*Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return !bills[i].IsFullyPaid && bills[j].IsFullyPaid
	})
}

// MessageContext 模板渲染的上下文值
type MessageContext struct {
	Date        string
	SessionName string
}

// RenderMessage 用对账单数值替换模板中的 {{token}} 占位符。
// 纯字面替换，无表达式语言；不认识的占位符原样保留。
func RenderMessage(bill *Bill, template string, ctx MessageContext) string {
	var lines []string
	for _, item := range bill.Items {
		if item.Variant != "" {
			lines = append(lines, fmt.Sprintf("– %s (%s) x%d $%d", item.Name, item.Variant, item.Quantity, item.LineTotal))
		} else {
			lines = append(lines, fmt.Sprintf("– %s x%d $%d", item.Name, item.Quantity, item.LineTotal))
		}
	}

	freeShippingNote := ""
	if bill.IsFreeShipping {
		freeShippingNote = "(已達免運)"
	}
	total := bill.Subtotal + bill.ShippingFee

	replacer := strings.NewReplacer(
		"{{date}}", ctx.Date,
		"{{name}}", bill.CustomerName,
		"{{items}}", strings.Join(lines, "\n"),
		"{{subtotal}}", fmt.Sprintf("%d", bill.Subtotal),
		"{{shipping}}", fmt.Sprintf("%d", bill.ShippingFee),
		"{{freeShippingNote}}", freeShippingNote,
		"{{total}}", fmt.Sprintf("%d", total),
		"{{pickupPayment}}", fmt.Sprintf("%d", bill.PickupPayment),
		"{{remittance}}", fmt.Sprintf("%d", bill.RemittanceAmount),
		"{{sessionName}}", ctx.SessionName,
	)
	return replacer.Replace(template)
}
