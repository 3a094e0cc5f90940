package events

import (
	"time"

	"github.com/hamba/avro/v2"
)

// OrderPlacedSchemaTextV1 is the Avro schema of order-placed records.
// Money travels as decimal strings.
const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "arayesh.orders",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "long"},
		{"name": "user_id", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "phone", "type": "string"},
		{"name": "postal_code", "type": "string"},
		{"name": "address", "type": "string"},
		{"name": "total_price", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
		{"name": "items", "type": {"type": "array", "items": {
			"type": "record",
			"name": "order_placed_item",
			"fields": [
				{"name": "product_id", "type": "long"},
				{"name": "quantity", "type": "int"},
				{"name": "price", "type": "string"}
			]
		}}}
	]
}`

type (
	OrderPlacedV1 struct {
		OrderID    int64               `avro:"order_id"`
		UserID     string              `avro:"user_id"`
		Email      string              `avro:"email"`
		Phone      string              `avro:"phone"`
		PostalCode string              `avro:"postal_code"`
		Address    string              `avro:"address"`
		TotalPrice string              `avro:"total_price"`
		Status     string              `avro:"status"`
		CreatedAt  time.Time           `avro:"created_at"`
		Items      []OrderPlacedItemV1 `avro:"items"`
	}

	OrderPlacedItemV1 struct {
		ProductID int64  `avro:"product_id"`
		Quantity  int    `avro:"quantity"`
		Price     string `avro:"price"`
	}
)

var orderPlacedV1 = avro.MustParse(OrderPlacedSchemaTextV1)

// OrderPlacedV1Avro returns the parsed schema.
func OrderPlacedV1Avro() avro.Schema {
	return orderPlacedV1
}
