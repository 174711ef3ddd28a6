package models

import "time"

// Product is one stocked item. SKU is derived from (name, brand, size) and
// is never user-supplied.
type Product struct {
	SKU           int64     `gorm:"primaryKey;autoIncrement:false"   json:"sku"`
	Name          string    `gorm:"size:255;not null;index"          json:"name"`
	Brand         string    `gorm:"size:255;not null"                json:"brand"`
	Category      *string   `gorm:"size:255"                         json:"category"`
	Gender        string    `gorm:"size:50"                          json:"gender"`
	Size          float64   `gorm:"not null"                         json:"size"`
	Color         *string   `gorm:"size:100"                         json:"color"`
	Quantity      int       `gorm:"not null;default:0"               json:"quantity"`
	PromoPrice    *float64  `                                        json:"promo_price"`
	DiscountPrice *float64  `                                        json:"discount_price"`
	NormalPrice   float64   `gorm:"not null;default:0"               json:"normal_price"`
	Description   *string   `gorm:"type:text"                        json:"description"`
	EntryDate     time.Time `gorm:"not null;index"                   json:"entry_date"`
	UpdatedAt     time.Time `                                        json:"updated_at"`
}
