package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Sizes       pq.StringArray  `json:"sizes" swaggertype:"array,string"`
	Images      pq.StringArray  `json:"images" swaggertype:"array,string"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Bestseller  bool            `json:"bestseller"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// HasSize reports whether the product is sold in the given size. Products
// without a size list accept any size.
func (p *Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}

	return slices.Contains(p.Sizes, size)
}
