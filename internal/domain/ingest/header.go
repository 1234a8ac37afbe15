package ingest

import (
	"strings"

	"github.com/okian/fairway/internal/domain/model"
)

const utf8BOM = "\ufeff"

// Resolver maps normalized header labels to canonical fields.
type Resolver map[string]model.Field

// R10Headers is the synonym table for header-driven Garmin R10 exports.
var R10Headers = Resolver{ //nolint:gochecknoglobals // static lookup table
	"shot":                   model.FieldShotNumber,
	"shot number":            model.FieldShotNumber,
	"club":                   model.FieldClub,
	"ball speed":             model.FieldBallSpeed,
	"ball speed (mph)":       model.FieldBallSpeed,
	"club head speed":        model.FieldClubHeadSpeed,
	"club speed":             model.FieldClubHeadSpeed,
	"club speed (mph)":       model.FieldClubHeadSpeed,
	"launch angle":           model.FieldLaunchAngle,
	"launch angle (deg)":     model.FieldLaunchAngle,
	"launch direction":       model.FieldLaunchDirection,
	"launch direction (deg)": model.FieldLaunchDirection,
	"spin rate":              model.FieldSpinRate,
	"spin rate (rpm)":        model.FieldSpinRate,
	"spin axis":              model.FieldSpinAxis,
	"spin axis (deg)":        model.FieldSpinAxis,
	"carry":                  model.FieldCarryDistance,
	"carry distance":         model.FieldCarryDistance,
	"carry distance (yards)": model.FieldCarryDistance,
	"total":                  model.FieldTotalDistance,
	"total distance":         model.FieldTotalDistance,
	"total distance (yards)": model.FieldTotalDistance,
	"deviation":              model.FieldDeviation,
	"deviation (ft)":         model.FieldDeviation,
	"apex":                   model.FieldApex,
	"apex (ft)":              model.FieldApex,
	"attack angle":           model.FieldAttackAngle,
	"attack angle (deg)":     model.FieldAttackAngle,
	"face angle":             model.FieldFaceAngle,
	"face angle (deg)":       model.FieldFaceAngle,
	"face to path":           model.FieldFaceToPath,
	"face to path (deg)":     model.FieldFaceToPath,
	"swing path":             model.FieldSwingPath,
	"path":                   model.FieldSwingPath,
	"path (deg)":             model.FieldSwingPath,
	"swing plane":            model.FieldSwingPlane,
	"plane":                  model.FieldSwingPlane,
	"plane (deg)":            model.FieldSwingPlane,
	"vertical face impact":   model.FieldVerticalFaceImpact,
	"vertical impact (in)":   model.FieldVerticalFaceImpact,
	"horizontal face impact": model.FieldHorizontalFaceImpact,
	"horizontal impact (in)": model.FieldHorizontalFaceImpact,
}

// AwesomeGolfHeaders is the synonym table for positional Awesome Golf exports.
// Rows are still read by position; the table only checks the header against
// the column contract.
var AwesomeGolfHeaders = Resolver{ //nolint:gochecknoglobals // static lookup table
	"date":                        model.FieldShotTime,
	"time":                        model.FieldShotTime,
	"club type":                   model.FieldClub,
	"club description":            model.FieldClubDescription,
	"altitude":                    model.FieldAltitude,
	"altitude [ft]":               model.FieldAltitude,
	"club speed":                  model.FieldClubHeadSpeed,
	"club speed [mph]":            model.FieldClubHeadSpeed,
	"ball speed":                  model.FieldBallSpeed,
	"ball speed [mph]":            model.FieldBallSpeed,
	"carry distance":              model.FieldCarryDistance,
	"carry distance [yd]":         model.FieldCarryDistance,
	"total distance":              model.FieldTotalDistance,
	"total distance [yd]":         model.FieldTotalDistance,
	"roll distance":               model.FieldRollDistance,
	"roll distance [yd]":          model.FieldRollDistance,
	"smash":                       model.FieldSmash,
	"vertical launch":             model.FieldLaunchAngle,
	"vertical launch [deg]":       model.FieldLaunchAngle,
	"peak height":                 model.FieldPeakHeight,
	"peak height [ft]":            model.FieldPeakHeight,
	"descent angle":               model.FieldDescentAngle,
	"descent angle [deg]":         model.FieldDescentAngle,
	"horizontal launch":           model.FieldHorizontalLaunch,
	"horizontal launch [deg]":     model.FieldHorizontalLaunch,
	"carry lateral distance":      model.FieldCarryLateralDistance,
	"carry lateral distance [yd]": model.FieldCarryLateralDistance,
	"total lateral distance":      model.FieldTotalLateralDistance,
	"total lateral distance [yd]": model.FieldTotalLateralDistance,
	"carry curve distance":        model.FieldCarryCurveDistance,
	"carry curve distance [yd]":   model.FieldCarryCurveDistance,
	"total curve distance":        model.FieldTotalCurveDistance,
	"total curve distance [yd]":   model.FieldTotalCurveDistance,
	"attack angle":                model.FieldAttackAngle,
	"attack angle [deg]":          model.FieldAttackAngle,
	"dynamic loft":                model.FieldDynamicLoft,
	"dynamic loft [deg]":          model.FieldDynamicLoft,
	"spin loft":                   model.FieldSpinLoft,
	"spin loft [deg]":             model.FieldSpinLoft,
	"spin rate":                   model.FieldSpinRate,
	"spin rate [rpm]":             model.FieldSpinRate,
	"spin axis":                   model.FieldSpinAxis,
	"spin axis [deg]":             model.FieldSpinAxis,
	"low point":                   model.FieldLowPoint,
	"low point [in]":              model.FieldLowPoint,
	"club path":                   model.FieldSwingPath,
	"club path [deg]":             model.FieldSwingPath,
	"face path":                   model.FieldFaceToPath,
	"face path [deg]":             model.FieldFaceToPath,
	"face target":                 model.FieldFaceTarget,
	"face target [deg]":           model.FieldFaceTarget,
	"swing plane tilt":            model.FieldSwingPlaneTilt,
	"swing plane tilt [deg]":      model.FieldSwingPlaneTilt,
	"swing plane rotation":        model.FieldSwingPlaneRotation,
	"swing plane rotation [deg]":  model.FieldSwingPlaneRotation,
	"shot classification":         model.FieldShotClassification,
}

// NormalizeHeader trims, lower-cases and drops a byte order mark.
func NormalizeHeader(label string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(label, utf8BOM)))
}

// Lookup resolves a single label; unknown labels map to model.FieldUnknown.
func (r Resolver) Lookup(label string) model.Field {
	if f, ok := r[NormalizeHeader(label)]; ok {
		return f
	}
	return model.FieldUnknown
}

// Resolve maps every header token to its field.
func (r Resolver) Resolve(header []string) []model.Field {
	out := make([]model.Field, len(header))
	for i, h := range header {
		out[i] = r.Lookup(h)
	}
	return out
}
