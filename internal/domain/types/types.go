// Package types contains response shapes shared by the service and its transports.
package types

import (
	"time"

	"github.com/okian/fairway/internal/domain/model"
)

// SessionSummary is one row of the session listing.
type SessionSummary struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Location         string       `json:"location"`
	UploadDate       time.Time    `json:"uploadDate"`
	SessionDate      time.Time    `json:"sessionDate"`
	SourceType       model.Source `json:"sourceType"`
	ShotCount        int          `json:"shotCount"`
	AvgCarryDistance float64      `json:"avgCarryDistance"`
	AvgTotalDistance float64      `json:"avgTotalDistance"`
	AvgBallSpeed     float64      `json:"avgBallSpeed"`
}

// NewSessionSummary joins session metadata with its computed summary.
func NewSessionSummary(s model.Session, sum model.Summary) SessionSummary {
	return SessionSummary{
		ID:               s.ID,
		Title:            s.Title,
		Location:         s.Location,
		UploadDate:       s.UploadDate,
		SessionDate:      s.SessionDate,
		SourceType:       s.Source,
		ShotCount:        sum.ShotCount,
		AvgCarryDistance: sum.AvgCarryDistance,
		AvgTotalDistance: sum.AvgTotalDistance,
		AvgBallSpeed:     sum.AvgBallSpeed,
	}
}
