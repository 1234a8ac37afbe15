package model

// Field enumerates the canonical shot attributes a file column can map to.
type Field uint8

const (
	FieldUnknown Field = iota
	FieldShotNumber
	FieldClub
	FieldClubDescription
	FieldShotTime
	FieldShotClassification

	// numeric metrics; keep contiguous so Numeric stays a range check
	FieldAltitude
	FieldBallSpeed
	FieldClubHeadSpeed
	FieldLaunchAngle
	FieldLaunchDirection
	FieldSpinRate
	FieldSpinAxis
	FieldCarryDistance
	FieldTotalDistance
	FieldRollDistance
	FieldDeviation
	FieldApex
	FieldAttackAngle
	FieldFaceAngle
	FieldFaceToPath
	FieldSwingPath
	FieldSwingPlane
	FieldVerticalFaceImpact
	FieldHorizontalFaceImpact
	FieldSmash
	FieldPeakHeight
	FieldDescentAngle
	FieldHorizontalLaunch
	FieldCarryLateralDistance
	FieldTotalLateralDistance
	FieldCarryCurveDistance
	FieldTotalCurveDistance
	FieldDynamicLoft
	FieldSpinLoft
	FieldLowPoint
	FieldFaceTarget
	FieldSwingPlaneTilt
	FieldSwingPlaneRotation

	fieldCount
)

const (
	firstMetric = FieldAltitude
	lastMetric  = FieldSwingPlaneRotation
)

type fieldInfo struct {
	name   string // json / canonical name
	label  string // human readable column title
	column string // storage column
}

//nolint:gochecknoglobals // static field table
var fieldInfos = [fieldCount]fieldInfo{
	FieldUnknown:              {"unknown", "Unknown", ""},
	FieldShotNumber:           {"shotNumber", "Shot", "shot_number"},
	FieldClub:                 {"club", "Club", "club"},
	FieldClubDescription:      {"clubDescription", "Club Description", "club_description"},
	FieldShotTime:             {"shotTime", "Shot Time", "shot_time_ms"},
	FieldShotClassification:   {"shotClassification", "Shot Classification", "shot_classification"},
	FieldAltitude:             {"altitude", "Altitude", "altitude"},
	FieldBallSpeed:            {"ballSpeed", "Ball Speed", "ball_speed"},
	FieldClubHeadSpeed:        {"clubHeadSpeed", "Club Head Speed", "club_head_speed"},
	FieldLaunchAngle:          {"launchAngle", "Launch Angle", "launch_angle"},
	FieldLaunchDirection:      {"launchDirection", "Launch Direction", "launch_direction"},
	FieldSpinRate:             {"spinRate", "Spin Rate", "spin_rate"},
	FieldSpinAxis:             {"spinAxis", "Spin Axis", "spin_axis"},
	FieldCarryDistance:        {"carryDistance", "Carry Distance", "carry_distance"},
	FieldTotalDistance:        {"totalDistance", "Total Distance", "total_distance"},
	FieldRollDistance:         {"rollDistance", "Roll Distance", "roll_distance"},
	FieldDeviation:            {"deviation", "Deviation", "deviation"},
	FieldApex:                 {"apex", "Apex", "apex"},
	FieldAttackAngle:          {"attackAngle", "Attack Angle", "attack_angle"},
	FieldFaceAngle:            {"faceAngle", "Face Angle", "face_angle"},
	FieldFaceToPath:           {"faceToPath", "Face To Path", "face_to_path"},
	FieldSwingPath:            {"swingPath", "Swing Path", "swing_path"},
	FieldSwingPlane:           {"swingPlane", "Swing Plane", "swing_plane"},
	FieldVerticalFaceImpact:   {"verticalFaceImpact", "Vertical Face Impact", "vertical_face_impact"},
	FieldHorizontalFaceImpact: {"horizontalFaceImpact", "Horizontal Face Impact", "horizontal_face_impact"},
	FieldSmash:                {"smash", "Smash", "smash"},
	FieldPeakHeight:           {"peakHeight", "Peak Height", "peak_height"},
	FieldDescentAngle:         {"descentAngle", "Descent Angle", "descent_angle"},
	FieldHorizontalLaunch:     {"horizontalLaunch", "Horizontal Launch", "horizontal_launch"},
	FieldCarryLateralDistance: {"carryLateralDistance", "Carry Lateral Distance", "carry_lateral_distance"},
	FieldTotalLateralDistance: {"totalLateralDistance", "Total Lateral Distance", "total_lateral_distance"},
	FieldCarryCurveDistance:   {"carryCurveDistance", "Carry Curve Distance", "carry_curve_distance"},
	FieldTotalCurveDistance:   {"totalCurveDistance", "Total Curve Distance", "total_curve_distance"},
	FieldDynamicLoft:          {"dynamicLoft", "Dynamic Loft", "dynamic_loft"},
	FieldSpinLoft:             {"spinLoft", "Spin Loft", "spin_loft"},
	FieldLowPoint:             {"lowPoint", "Low Point", "low_point"},
	FieldFaceTarget:           {"faceTarget", "Face Target", "face_target"},
	FieldSwingPlaneTilt:       {"swingPlaneTilt", "Swing Plane Tilt", "swing_plane_tilt"},
	FieldSwingPlaneRotation:   {"swingPlaneRotation", "Swing Plane Rotation", "swing_plane_rotation"},
}

func (f Field) info() fieldInfo {
	if f >= fieldCount {
		return fieldInfos[FieldUnknown]
	}
	return fieldInfos[f]
}

// String returns the canonical camelCase name, matching the JSON key of Shot.
func (f Field) String() string { return f.info().name }

// Label returns a human readable title for exports.
func (f Field) Label() string { return f.info().label }

// Column returns the storage column name; empty for FieldUnknown.
func (f Field) Column() string { return f.info().column }

// Numeric reports whether f carries a float metric.
func (f Field) Numeric() bool { return f >= firstMetric && f <= lastMetric }

// Fields returns every known field in declaration order, excluding FieldUnknown.
func Fields() []Field {
	out := make([]Field, 0, fieldCount-1)
	for f := FieldShotNumber; f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// Metrics returns the numeric fields in declaration order.
func Metrics() []Field {
	out := make([]Field, 0, lastMetric-firstMetric+1)
	for f := firstMetric; f <= lastMetric; f++ {
		out = append(out, f)
	}
	return out
}
