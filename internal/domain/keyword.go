package domain

import "time"

// ContentType classifies which section of a description a keyword came from.
type ContentType string

const (
	ContentWhatIs   ContentType = "what_is"
	ContentTutorial ContentType = "tutorial"
	ContentMistakes ContentType = "mistakes"
	ContentTips     ContentType = "tips"
	ContentMuscles  ContentType = "muscles"
	ContentOther    ContentType = "other"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	switch t {
	case ContentWhatIs, ContentTutorial, ContentMistakes, ContentTips, ContentMuscles, ContentOther:
		return true
	}
	return false
}

// ContentKeywordMapping is a scored association between an exercise and a keyword.
// (ExerciseID, Keyword, ContentType) is unique.
type ContentKeywordMapping struct {
	ID             int64       `bson:"_id" json:"id" gorm:"primaryKey"`
	ExerciseID     int64       `bson:"exerciseId" json:"exerciseId" gorm:"not null;uniqueIndex:idx_mapping_unique"`
	Keyword        string      `bson:"keyword" json:"keyword" gorm:"size:100;not null;uniqueIndex:idx_mapping_unique"`
	ContentType    ContentType `bson:"contentType" json:"contentType" gorm:"size:50;not null;uniqueIndex:idx_mapping_unique"`
	RelevanceScore float64     `bson:"relevanceScore" json:"relevanceScore" gorm:"not null;default:1"`
	CreatedAt      time.Time   `bson:"createdAt" json:"createdAt"`
}
