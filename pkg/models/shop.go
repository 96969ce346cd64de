package models

// ProductStock is one catalog entry inside a shop: unit price, remaining
// quantity, and the derived availability flag. InStock must always equal
// quantity > 0 and is recomputed on every quantity mutation.
type ProductStock struct {
	ProductID string  `bson:"product" json:"product"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	InStock   bool    `bson:"inStock" json:"inStock"`
}

type OperatingHours struct {
	Open  string `bson:"open" json:"open"`
	Close string `bson:"close" json:"close"`
}

type Shop struct {
	ID             string         `bson:"_id" json:"id"`
	Name           string         `bson:"name" json:"name"`
	Description    string         `bson:"description" json:"description"`
	Location       GeoPoint       `bson:"location" json:"location"`
	Address        string         `bson:"address" json:"address"`
	Category       string         `bson:"category" json:"category"`
	IsOpen         bool           `bson:"isOpen" json:"isOpen"`
	OperatingHours OperatingHours `bson:"operatingHours" json:"operatingHours"`
	Products       []ProductStock `bson:"products" json:"products"`
}

// FindProduct returns the shop's catalog entry for productID, or nil if the
// shop does not carry it.
func (s *Shop) FindProduct(productID string) *ProductStock {
	for i := range s.Products {
		if s.Products[i].ProductID == productID {
			return &s.Products[i]
		}
	}
	return nil
}
