// Package catalog holds the static product catalog. The catalog is
// read-only reference data and is not persisted.
package catalog

// Product is one catalog entry. Names are unique within the catalog.
type Product struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

var products = []Product{
	{Name: "T-shirt", Description: "A plain white t-shirt made of 100% cotton.", Price: 10.99},
	{Name: "Jeans", Description: "A pair of blue denim jeans with a straight leg fit.", Price: 24.99},
	{Name: "Hoodie", Description: "A black hoodie made of a cotton and polyester blend.", Price: 34.99},
	{Name: "Cardigan", Description: "A grey cardigan with a V-neck and long sleeves.", Price: 36.99},
	{Name: "Joggers", Description: "A pair of black joggers made of a cotton and polyester blend.", Price: 44.99},
	{Name: "Dress", Description: "A black dress made of 100% polyester.", Price: 49.99},
	{Name: "Jacket", Description: "A navy blue jacket made of 100% cotton.", Price: 55.99},
	{Name: "Skirt", Description: "A brown skirt made of a cotton and polyester blend.", Price: 29.99},
	{Name: "Shorts", Description: "A pair of black shorts made of a cotton and polyester blend.", Price: 19.99},
	{Name: "Sweater", Description: "A white sweater with a crew neck and long sleeves.", Price: 39.99},
}

// Products returns the catalog in its fixed display order.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
