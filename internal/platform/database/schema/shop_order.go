package schema

// ShopOrderTable represents the 'shop.order' table
type ShopOrderTable struct {
	Table           string
	ID              string
	UserID          string
	Status          string
	Total           string
	ShippingAddress string
	CreatedAt       string
	UpdatedAt       string
}

// ShopOrder is the schema definition for shop.order
var ShopOrder = ShopOrderTable{
	Table:           `shop."order"`,
	ID:              "id",
	UserID:          "userid",
	Status:          "status",
	Total:           "total",
	ShippingAddress: "shippingaddress",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

// Columns returns all standard column names
func (t ShopOrderTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Status, t.Total, t.ShippingAddress, t.CreatedAt, t.UpdatedAt}
}
