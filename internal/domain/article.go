package domain

import "time"

// Article is a knowledge-base page.
type Article struct {
	ID        int64      `bson:"_id" json:"id" gorm:"primaryKey"`
	Title     string     `bson:"title" json:"title" gorm:"size:200;not null"`
	Slug      string     `bson:"slug" json:"slug" gorm:"size:255;uniqueIndex"`
	Content   string     `bson:"content" json:"content" gorm:"type:text"`
	Images    StringList `bson:"images" json:"images" gorm:"type:text"`
	Keywords  StringList `bson:"keywords" json:"keywords" gorm:"type:text"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}
