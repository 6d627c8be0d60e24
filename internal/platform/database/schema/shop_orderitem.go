package schema

// ShopOrderItemTable represents the 'shop.orderitem' table
type ShopOrderItemTable struct {
	Table       string
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Size        string
	UnitPrice   string
	Quantity    string
}

// ShopOrderItem is the schema definition for shop.orderitem
var ShopOrderItem = ShopOrderItemTable{
	Table:       "shop.orderitem",
	ID:          "id",
	OrderID:     "orderid",
	ProductID:   "productid",
	ProductName: "productname",
	Size:        "size",
	UnitPrice:   "unitprice",
	Quantity:    "quantity",
}

// Columns returns all standard column names
func (t ShopOrderItemTable) Columns() []string {
	return []string{t.ID, t.OrderID, t.ProductID, t.ProductName, t.Size, t.UnitPrice, t.Quantity}
}
