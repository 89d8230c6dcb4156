package domain

import "time"

// BodyPart is a muscle-group category that owns exercises.
type BodyPart struct {
	ID          int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Name        string    `bson:"name" json:"name" gorm:"size:100;not null;index"`
	Slug        string    `bson:"slug" json:"slug" gorm:"size:100;uniqueIndex"`
	Description string    `bson:"description,omitempty" json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BodyPartStats aggregates exercise counts for one body part.
type BodyPartStats struct {
	BodyPartID   int64  `json:"body_part_id"`
	BodyPartName string `json:"body_part_name"`
	BodyPartSlug string `json:"body_part_slug"`
	Total        int64  `json:"total"`
	WithVideo    int64  `json:"with_video"`
	AIGenerated  int64  `json:"ai_generated"`
}

// WithoutVideo is the number of exercises still missing a tutorial link.
func (s BodyPartStats) WithoutVideo() int64 { return s.Total - s.WithVideo }

// Manual is the number of exercises whose description was written by hand.
func (s BodyPartStats) Manual() int64 { return s.Total - s.AIGenerated }
