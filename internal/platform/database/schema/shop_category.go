package schema

// ShopCategoryTable represents the 'shop.category' table
type ShopCategoryTable struct {
	Table     string
	ID        string
	Slug      string
	Name      string
	CreatedAt string
}

// ShopCategory is the schema definition for shop.category
var ShopCategory = ShopCategoryTable{
	Table:     "shop.category",
	ID:        "id",
	Slug:      "slug",
	Name:      "name",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t ShopCategoryTable) Columns() []string {
	return []string{t.ID, t.Slug, t.Name, t.CreatedAt}
}
