package models

// ProductCode identifies one of the fixed envelope products.
type ProductCode string

const (
	ProductPureWhite     ProductCode = "pure-white"
	ProductInsidePrinted ProductCode = "inside-printed"
	ProductSealedPrinted ProductCode = "sealed-printed"
)

// Product describes a catalogue entry: display name and price per bundle.
// Prices live server-side only, so the request body cannot tamper with them.
type Product struct {
	Code           ProductCode `json:"code"`
	Name           string      `json:"name"`
	PricePerBundle float64     `json:"price_per_bundle"`
}

// catalogue is the fixed product/price table.
var catalogue = map[ProductCode]Product{
	ProductPureWhite:     {Code: ProductPureWhite, Name: "Pure White Medicine Envelopes", PricePerBundle: 2500},
	ProductInsidePrinted: {Code: ProductInsidePrinted, Name: "Inside Printed Envelopes", PricePerBundle: 3000},
	ProductSealedPrinted: {Code: ProductSealedPrinted, Name: "Sealed Printed Envelopes", PricePerBundle: 3500},
}

// LookupProduct returns the catalogue entry for code, if it exists.
func LookupProduct(code ProductCode) (Product, bool) {
	p, ok := catalogue[code]
	return p, ok
}

// ValidProduct reports whether code names a catalogue product.
func ValidProduct(code ProductCode) bool {
	_, ok := catalogue[code]
	return ok
}

// Products returns the catalogue entries in a stable order.
func Products() []Product {
	return []Product{
		catalogue[ProductPureWhite],
		catalogue[ProductInsidePrinted],
		catalogue[ProductSealedPrinted],
	}
}
