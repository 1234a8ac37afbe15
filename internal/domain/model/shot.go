package model

import "time"

// Shot is one ball strike in canonical form. Metrics the device did not
// report stay nil.
type Shot struct {
	// SessionID points back at the owning session; it is a lookup key, not ownership.
	SessionID          string     `json:"sessionId,omitempty"`
	ShotNumber         *int       `json:"shotNumber"`
	Club               string     `json:"club,omitempty"`
	ClubDescription    string     `json:"clubDescription,omitempty"`
	ShotTime           *time.Time `json:"shotTime,omitempty"`
	ShotClassification string     `json:"shotClassification,omitempty"`

	Altitude             *float64 `json:"altitude"`
	BallSpeed            *float64 `json:"ballSpeed"`
	ClubHeadSpeed        *float64 `json:"clubHeadSpeed"`
	LaunchAngle          *float64 `json:"launchAngle"`
	LaunchDirection      *float64 `json:"launchDirection"`
	SpinRate             *float64 `json:"spinRate"`
	SpinAxis             *float64 `json:"spinAxis"`
	CarryDistance        *float64 `json:"carryDistance"`
	TotalDistance        *float64 `json:"totalDistance"`
	RollDistance         *float64 `json:"rollDistance"`
	Deviation            *float64 `json:"deviation"`
	Apex                 *float64 `json:"apex"`
	AttackAngle          *float64 `json:"attackAngle"`
	FaceAngle            *float64 `json:"faceAngle"`
	FaceToPath           *float64 `json:"faceToPath"`
	SwingPath            *float64 `json:"swingPath"`
	SwingPlane           *float64 `json:"swingPlane"`
	VerticalFaceImpact   *float64 `json:"verticalFaceImpact"`
	HorizontalFaceImpact *float64 `json:"horizontalFaceImpact"`
	Smash                *float64 `json:"smash"`
	PeakHeight           *float64 `json:"peakHeight"`
	DescentAngle         *float64 `json:"descentAngle"`
	HorizontalLaunch     *float64 `json:"horizontalLaunch"`
	CarryLateralDistance *float64 `json:"carryLateralDistance"`
	TotalLateralDistance *float64 `json:"totalLateralDistance"`
	CarryCurveDistance   *float64 `json:"carryCurveDistance"`
	TotalCurveDistance   *float64 `json:"totalCurveDistance"`
	DynamicLoft          *float64 `json:"dynamicLoft"`
	SpinLoft             *float64 `json:"spinLoft"`
	LowPoint             *float64 `json:"lowPoint"`
	FaceTarget           *float64 `json:"faceTarget"`
	SwingPlaneTilt       *float64 `json:"swingPlaneTilt"`
	SwingPlaneRotation   *float64 `json:"swingPlaneRotation"`
}

func (s *Shot) slot(f Field) **float64 {
	switch f {
	case FieldAltitude:
		return &s.Altitude
	case FieldBallSpeed:
		return &s.BallSpeed
	case FieldClubHeadSpeed:
		return &s.ClubHeadSpeed
	case FieldLaunchAngle:
		return &s.LaunchAngle
	case FieldLaunchDirection:
		return &s.LaunchDirection
	case FieldSpinRate:
		return &s.SpinRate
	case FieldSpinAxis:
		return &s.SpinAxis
	case FieldCarryDistance:
		return &s.CarryDistance
	case FieldTotalDistance:
		return &s.TotalDistance
	case FieldRollDistance:
		return &s.RollDistance
	case FieldDeviation:
		return &s.Deviation
	case FieldApex:
		return &s.Apex
	case FieldAttackAngle:
		return &s.AttackAngle
	case FieldFaceAngle:
		return &s.FaceAngle
	case FieldFaceToPath:
		return &s.FaceToPath
	case FieldSwingPath:
		return &s.SwingPath
	case FieldSwingPlane:
		return &s.SwingPlane
	case FieldVerticalFaceImpact:
		return &s.VerticalFaceImpact
	case FieldHorizontalFaceImpact:
		return &s.HorizontalFaceImpact
	case FieldSmash:
		return &s.Smash
	case FieldPeakHeight:
		return &s.PeakHeight
	case FieldDescentAngle:
		return &s.DescentAngle
	case FieldHorizontalLaunch:
		return &s.HorizontalLaunch
	case FieldCarryLateralDistance:
		return &s.CarryLateralDistance
	case FieldTotalLateralDistance:
		return &s.TotalLateralDistance
	case FieldCarryCurveDistance:
		return &s.CarryCurveDistance
	case FieldTotalCurveDistance:
		return &s.TotalCurveDistance
	case FieldDynamicLoft:
		return &s.DynamicLoft
	case FieldSpinLoft:
		return &s.SpinLoft
	case FieldLowPoint:
		return &s.LowPoint
	case FieldFaceTarget:
		return &s.FaceTarget
	case FieldSwingPlaneTilt:
		return &s.SwingPlaneTilt
	case FieldSwingPlaneRotation:
		return &s.SwingPlaneRotation
	}
	return nil
}

// Set stores v for a numeric field. Non-numeric fields are ignored.
func (s *Shot) Set(f Field, v float64) {
	if p := s.slot(f); p != nil {
		*p = &v
	}
}

// Metric returns the value of a numeric field, or nil when unset or not numeric.
func (s *Shot) Metric(f Field) *float64 {
	if p := s.slot(f); p != nil {
		return *p
	}
	return nil
}

// SetShotNumber records the shot's sequence number.
func (s *Shot) SetShotNumber(n int) {
	s.ShotNumber = &n
}

// Number returns the shot number or 0 when absent.
func (s *Shot) Number() int {
	if s.ShotNumber == nil {
		return 0
	}
	return *s.ShotNumber
}

// Clone returns a copy that shares no pointers with s.
func (s Shot) Clone() Shot {
	c := s
	if s.ShotNumber != nil {
		c.SetShotNumber(*s.ShotNumber)
	}
	if s.ShotTime != nil {
		t := *s.ShotTime
		c.ShotTime = &t
	}
	for _, f := range Metrics() {
		if v := s.Metric(f); v != nil {
			c.Set(f, *v)
		}
	}
	return c
}
