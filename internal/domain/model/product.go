package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 在庫状態（しきい値から導出する。保存はしない）
type StockStatus string

const (
	StockStatusOut = StockStatus("out_of_stock")
	StockStatusLow = StockStatus("low_stock")
	StockStatusIn  = StockStatus("in_stock")
)

type Product struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	NameKm            string    `gorm:"type:varchar(255)" json:"name_km"`
	Description       string    `gorm:"type:text" json:"description"`
	CategoryID        *string   `gorm:"type:uuid;index" json:"category_id"`
	ImageURL          *string   `gorm:"type:text" json:"image_url"`
	CostPrice         float64   `gorm:"type:numeric(12,2);not null;default:0" json:"cost_price"`
	CostCurrency      string    `gorm:"type:varchar(3);not null;default:'USD'" json:"cost_currency"`
	SellingPrice      float64   `gorm:"type:numeric(12,2);not null;default:0" json:"selling_price"`
	SellingCurrency   string    `gorm:"type:varchar(3);not null;default:'USD'" json:"selling_currency"`
	QuantityInStock   int64     `gorm:"not null;default:0" json:"quantity_in_stock"`
	LowStockThreshold int64     `gorm:"not null;default:5" json:"low_stock_threshold"`
	SKU               *string   `gorm:"type:varchar(100);index" json:"sku"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// 現在数量としきい値から在庫状態を導く
func (p Product) StockStatus() StockStatus {
	switch {
	case p.QuantityInStock == 0:
		return StockStatusOut
	case p.QuantityInStock <= p.LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
