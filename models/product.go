package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ProductImage is a CDN-hosted image attached to a product
type ProductImage struct {
	URL     string `json:"url"`
	FileID  string `json:"fileId,omitempty"`
	AltText string `json:"altText,omitempty"`
}

// Product represents a catalog product
type Product struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Name           string            `gorm:"not null" json:"name"`
	Slug           string            `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string            `gorm:"type:text;not null" json:"description"`
	Price          float64           `gorm:"not null" json:"price"`
	MPrice         *float64          `json:"mprice,omitempty"` // optional market/list price for strikethrough display
	Stock          int               `gorm:"default:0" json:"stock"`
	Category       string            `gorm:"not null;index" json:"category"`
	Brand          string            `json:"brand,omitempty"`
	Video          string            `json:"video,omitempty"`
	Images         []ProductImage    `gorm:"serializer:json" json:"images"`
	Tags           []string          `gorm:"serializer:json" json:"tags,omitempty"`
	Specifications map[string]string `gorm:"serializer:json" json:"specifications,omitempty"`
	Featured       bool              `gorm:"default:false" json:"featured"`
	Rating         float64           `gorm:"default:0;check:rating >= 0 AND rating <= 5" json:"rating"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// BeforeSave recomputes the URL slug from the name. Runs on every save so
// renaming a product keeps its slug in sync.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.Name != "" {
		p.Slug = slug.Make(p.Name)
	}
	return nil
}
