package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderStatusProcessing = "processing"

type Order struct {
	ID         int64           `json:"id"`
	Phone      string          `json:"phone"`
	PostalCode string          `json:"postal_code"`
	Address    string          `json:"address"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
	Shipped    bool            `json:"shipped"`
	UserID     string          `json:"user_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []OrderItem     `json:"order_items"`
}

// OrderItem stores the unit price captured at submission time. It is never
// re-derived from the catalog afterwards.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// LineTotal is price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumItems totals the given lines.
func SumItems(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
