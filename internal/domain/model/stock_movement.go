package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChangeType string

const (
	ChangeTypeAddition    = ChangeType("addition")
	ChangeTypeSubtraction = ChangeType("subtraction")
	ChangeTypeAdjustment  = ChangeType("adjustment")
)

// 在庫台帳の1行。追記専用で、更新も削除もしない。
// quantity_changeは常に new_quantity - previous_quantity。
type StockMovement struct {
	ID               string     `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID        string     `gorm:"type:uuid;not null;index" json:"product_id"`
	UserID           *string    `gorm:"type:uuid;index" json:"user_id"`
	ChangeType       ChangeType `gorm:"type:varchar(20);not null" json:"change_type"`
	QuantityChange   int64      `gorm:"not null" json:"quantity_change"`
	PreviousQuantity int64      `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int64      `gorm:"not null" json:"new_quantity"`
	Notes            string     `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
