package models

import "time"

// ReportedType tags what kind of entity a report points at.
type ReportedType string

const (
	ReportedTypeVideo   ReportedType = "video"
	ReportedTypeUser    ReportedType = "user"
	ReportedTypeComment ReportedType = "comment"
)

// Valid reports whether t is one of the known reportable entity types.
func (t ReportedType) Valid() bool {
	switch t {
	case ReportedTypeVideo, ReportedTypeUser, ReportedTypeComment:
		return true
	}
	return false
}

// Report is a user-submitted complaint about a video, user or comment.
// ReportedID is intentionally untyped: the reported entity may be deleted
// after the report is filed and the report must survive it.
type Report struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ReporterID uint `gorm:"not null;index" json:"reporter_id"`
	Reporter   User `gorm:"foreignKey:ReporterID" json:"reporter"`

	ReportedType ReportedType `gorm:"not null" json:"reported_type"`
	ReportedID   uint         `gorm:"not null" json:"reported_id"`
	Reason       string       `gorm:"type:text;not null" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
