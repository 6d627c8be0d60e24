package schema

// ShopInstallmentTable represents the 'shop.installment' table
type ShopInstallmentTable struct {
	Table    string
	ID       string
	OrderID  string
	Sequence string
	Amount   string
	DueAt    string
	Status   string
	PaidAt   string
}

// ShopInstallment is the schema definition for shop.installment
var ShopInstallment = ShopInstallmentTable{
	Table:    "shop.installment",
	ID:       "id",
	OrderID:  "orderid",
	Sequence: "sequence",
	Amount:   "amount",
	DueAt:    "dueat",
	Status:   "status",
	PaidAt:   "paidat",
}

// Columns returns all standard column names
func (t ShopInstallmentTable) Columns() []string {
	return []string{t.ID, t.OrderID, t.Sequence, t.Amount, t.DueAt, t.Status, t.PaidAt}
}
