package schema

// ShopProductTable represents the 'shop.product' table
type ShopProductTable struct {
	Table       string
	ID          string
	Slug        string
	Name        string
	Description string
	Price       string
	CategoryID  string
	ImageURL    string
	Sizes       string
	IsActive    string
	CreatedAt   string
	UpdatedAt   string
}

// ShopProduct is the schema definition for shop.product
var ShopProduct = ShopProductTable{
	Table:       "shop.product",
	ID:          "id",
	Slug:        "slug",
	Name:        "name",
	Description: "description",
	Price:       "price",
	CategoryID:  "categoryid",
	ImageURL:    "imageurl",
	Sizes:       "sizes",
	IsActive:    "isactive",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t ShopProductTable) Columns() []string {
	return []string{
		t.ID, t.Slug, t.Name, t.Description, t.Price, t.CategoryID, t.ImageURL,
		t.Sizes, t.IsActive, t.CreatedAt, t.UpdatedAt,
	}
}
