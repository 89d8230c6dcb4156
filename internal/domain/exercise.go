// internal/domain/exercise.go
package domain

import (
	"regexp"
	"time"
)

// Exercise represents a single exercise in the library.
type Exercise struct {
	ID         int64     `bson:"_id" json:"id" gorm:"primaryKey"`
	Name       string    `bson:"name" json:"name" gorm:"size:200;not null;index"`
	Slug       string    `bson:"slug" json:"slug" gorm:"size:200;uniqueIndex"`
	BodyPartID int64     `bson:"bodyPartId" json:"bodyPartId" gorm:"not null;index"`
	BodyPart   *BodyPart `bson:"-" json:"bodyPart,omitempty" gorm:"foreignKey:BodyPartID"`

	Description string `bson:"description" json:"description" gorm:"type:text"` // markdown or HTML
	YouTubeURL  string `bson:"youtubeUrl,omitempty" json:"youtubeUrl,omitempty" gorm:"column:youtube_url;size:500"`

	Image       string `bson:"image,omitempty" json:"image,omitempty" gorm:"size:500"` // object key in file storage
	ImageURL    string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty" gorm:"size:500"`
	ImageWidth  *int   `bson:"imageWidth,omitempty" json:"imageWidth,omitempty"`
	ImageHeight *int   `bson:"imageHeight,omitempty" json:"imageHeight,omitempty"`

	GeneratedKeywords StringList `bson:"generatedKeywords" json:"generatedKeywords" gorm:"type:text"`
	AIGenerated       bool       `bson:"aiGenerated" json:"aiGenerated" gorm:"column:ai_generated;not null;default:false"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

var youtubeIDPattern = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// YouTubeVideoID extracts the 11 character video id from watch, embed and youtu.be links.
func (e *Exercise) YouTubeVideoID() string {
	if e.YouTubeURL == "" {
		return ""
	}
	m := youtubeIDPattern.FindStringSubmatch(e.YouTubeURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// YouTubeEmbedURL returns the embeddable player URL, or "" if the link is missing or unrecognised.
func (e *Exercise) YouTubeEmbedURL() string {
	id := e.YouTubeVideoID()
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + id
}

// YouTubeThumbnailURL returns a thumbnail for quality default, mqdefault, hqdefault, sddefault or maxresdefault.
func (e *Exercise) YouTubeThumbnailURL(quality string) string {
	id := e.YouTubeVideoID()
	if id == "" {
		return ""
	}
	if quality == "" {
		quality = "hqdefault"
	}
	return "https://img.youtube.com/vi/" + id + "/" + quality + ".jpg"
}

// WatchURL is the canonical watch link stored for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
