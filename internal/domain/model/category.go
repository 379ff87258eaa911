package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`
	// 一意性は大文字小文字を区別しない。LOWER(name)の関数インデックスで
	// 担保する（起動時に作成。gormタグでは式インデックスを表せない）。
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Icon         string    `gorm:"type:varchar(100)" json:"icon"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
