package engine

import "github.com/chiaobuy/liango/internal/entity"

// OrderUpdate 分配结果：每张订单一条，值未变也照样输出（调用方整批持久化，幂等）
type OrderUpdate struct {
	OrderID        string `json:"order_id"`
	QuantityBought int    `json:"quantity_bought"`
	Status         string `json:"status"`
}

// Reallocate 把外部观测到的"实际买到总量"重新分配到分组内的各张订单。
// 先到先得瀑布：按下单时间升序，先满足早单，供给不足时最后一张早单拿部分量，
// 之后的订单归零。newTotalBought 只钳下界不钳上界——回报超买是常态，多出的量
// 最终转入库存而不是报错。
func Reallocate(group Group, newTotalBought int) []OrderUpdate {
	if newTotalBought < 0 {
		newTotalBought = 0
	}
	if len(group.Orders) == 0 {
		return nil
	}

	remaining := newTotalBought
	updates := make([]OrderUpdate, 0, len(group.Orders))
	for _, o := range group.Orders {
		u := OrderUpdate{OrderID: o.ID}
		switch {
		case o.Quantity <= 0:
			// 零需求订单视为已满足，不消耗供给
			u.QuantityBought = 0
			u.Status = entity.OrderStatusBought
		case remaining >= o.Quantity:
			u.QuantityBought = o.Quantity
			u.Status = entity.OrderStatusBought
			remaining -= o.Quantity
		case remaining > 0:
			u.QuantityBought = remaining
			u.Status = entity.OrderStatusPending
			remaining = 0
		default:
			u.QuantityBought = 0
			u.Status = entity.OrderStatusPending
		}
		updates = append(updates, u)
	}
	return updates
}

// IncrementResult 增量分配结果
type IncrementResult struct {
	Updates []OrderUpdate `json:"updates"`
	// NewlySatisfiedOrderIDs 本次新增供给覆盖到的订单（可据此提示哪些客户刚变为可通知）
	NewlySatisfiedOrderIDs []string `json:"newly_satisfied_order_ids"`
}

// AllocateIncrement 在现有已买量上追加 addedQuantity 再重新分配。
// 等价于 Reallocate(group, TotalBought+addedQuantity)，额外用区间重叠判定
// 哪些订单的需求区间 [cumBefore, cumBefore+quantity) 与新增供给区间
// [oldTotal, newTotal) 相交，免去调用方二次扫描。
func AllocateIncrement(group Group, addedQuantity int) IncrementResult {
	oldTotal := group.TotalBought
	newTotal := oldTotal + addedQuantity
	updates := Reallocate(group, newTotal)

	var newlySatisfied []string
	cum := 0
	for _, o := range group.Orders {
		lo, hi := cum, cum+o.Quantity
		cum = hi
		if o.Quantity <= 0 {
			continue
		}
		if lo < newTotal && hi > oldTotal {
			newlySatisfied = append(newlySatisfied, o.ID)
		}
	}
	return IncrementResult{Updates: updates, NewlySatisfiedOrderIDs: newlySatisfied}
}
