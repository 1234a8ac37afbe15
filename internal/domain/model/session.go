package model

import "time"

// Session groups the shots ingested from one uploaded file.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	UploadDate  time.Time `json:"uploadDate"`
	SessionDate time.Time `json:"sessionDate"`
	Source      Source    `json:"sourceType"`
	ShotCount   int       `json:"shotCount"`
	Shots       []Shot    `json:"shots,omitempty"`
}

// Clone deep-copies the session including its shots.
func (s *Session) Clone() *Session {
	c := *s
	if s.Shots != nil {
		c.Shots = make([]Shot, len(s.Shots))
		for i := range s.Shots {
			c.Shots[i] = s.Shots[i].Clone()
		}
	}
	return &c
}

// Header returns a copy without shots.
func (s *Session) Header() Session {
	c := *s
	c.Shots = nil
	return c
}

// SessionPatch carries metadata edits; nil fields are left unchanged.
type SessionPatch struct {
	Title       *string
	Location    *string
	SessionDate *time.Time
}

// Summary is the session level subset of the statistics.
type Summary struct {
	ShotCount        int     `json:"shotCount"`
	AvgCarryDistance float64 `json:"avgCarryDistance"`
	AvgTotalDistance float64 `json:"avgTotalDistance"`
	AvgBallSpeed     float64 `json:"avgBallSpeed"`
}
