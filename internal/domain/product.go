package domain

// Product categories offered by the catalog source.
const (
	CategoryMensClothing   = "men's clothing"
	CategoryWomensClothing = "women's clothing"
	CategoryElectronics    = "electronics"
	CategoryJewelery       = "jewelery"
)

// Categories returns the fixed category set in display order.
func Categories() []string {
	return []string{CategoryMensClothing, CategoryWomensClothing, CategoryElectronics, CategoryJewelery}
}

// Rating is the review summary attached to a catalog record.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// RawProduct is a product record as delivered by the catalog source,
// before ingestion-time enrichment.
type RawProduct struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Product is a catalog record after enrichment. Stock, IsNew and Customizable
// are assigned once at ingestion and are never recomputed.
type Product struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	Rating       Rating  `json:"rating"`
	Stock        int     `json:"stock"`
	IsNew        bool    `json:"is_new"`
	Customizable bool    `json:"customizable"`
}

// Available reports whether the product can be added to a cart.
func (p *Product) Available() bool {
	return p.Stock > 0
}
