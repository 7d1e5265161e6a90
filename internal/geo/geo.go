// Package geo holds the fixed home base, haversine distance, commute
// distance bands, and the UK region classifier. All functions are pure;
// region labels are recomputed on every read so rule changes retroactively
// reclassify stored rows without migration.
package geo

import (
	"math"
	"strings"
)

// Crystal Palace, London — fixed home base for commute distances.
const (
	HomeLat = 51.4183
	HomeLng = -0.0739
)

const earthRadiusKm = 6371

// Haversine returns the great-circle distance in km between two coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Pow(math.Sin(dLng/2), 2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// RoundKm rounds a distance to one decimal, the precision stored on snapshots.
func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

// Band is one commute-distance bucket used for charting and CSV export.
// Intervals are half-open [Min, Max); the last band is unbounded above.
type Band struct {
	Label string
	Min   float64
	Max   float64
	Color string
}

// DistanceBands in ascending order.
var DistanceBands = []Band{
	{Label: "0–5 km", Min: 0, Max: 5, Color: "hsl(145,60%,42%)"},
	{Label: "5–15 km", Min: 5, Max: 15, Color: "hsl(200,70%,50%)"},
	{Label: "15–30 km", Min: 15, Max: 30, Color: "hsl(45,85%,55%)"},
	{Label: "30+ km", Min: 30, Max: math.Inf(1), Color: "hsl(8,78%,62%)"},
}

// DistanceBand buckets km into one of the fixed bands. Exactly 5 km falls in
// the second band. Values outside every interval (negative input) fall into
// the last band, matching the dashboard's charting behavior.
func DistanceBand(km float64) Band {
	for _, b := range DistanceBands {
		if km >= b.Min && km < b.Max {
			return b
		}
	}
	return DistanceBands[len(DistanceBands)-1]
}

// BandLabel is DistanceBand for a nullable distance; nil maps to "".
func BandLabel(km *float64) string {
	if km == nil {
		return ""
	}
	return DistanceBand(*km).Label
}

// Region labels produced by ClassifyUKRegion.
const (
	LabelRemoteOrHybrid = "UK – Remote / Hybrid"
	LabelRemote         = "UK – Remote"
	LabelHybrid         = "UK – Hybrid"
	LabelManchester     = "Greater Manchester"
	LabelInnerLondon    = "London – Inner"
	LabelOuterLondon    = "London – Outer"
	LabelCommuterBelt   = "London – Commuter Belt"
	LabelRegional       = "UK – Regional"
)

var (
	manchesterKeywords = []string{"manchester", "salford", "trafford", "bolton", "bury"}
	innerLondon        = []string{"westminster", "the city", "central london", "islington", "camden", "hackney", "southwark", "lambeth"}
	outerLondon        = []string{"croydon", "sutton", "kingston", "new malden", "morden", "bromley", "merton", "mitcham", "richmond"}
	commuterBelt       = []string{"surrey", "kent", "essex", "hertfordshire", "berkshire", "slough", "reading"}
)

// ClassifyUKRegion maps free-text location plus an optional precomputed
// distance to a coarse commute-band label. Text rules run first because a
// free-text address is more specific than a straight-line radius; distance
// is the fallback when the text gives no signal. An absent locationDetail is
// terminal even when a distance is known.
func ClassifyUKRegion(distanceKm *float64, locationDetail string) string {
	detail := strings.ToLower(strings.TrimSpace(locationDetail))
	if detail == "" {
		return LabelRemoteOrHybrid
	}

	if strings.Contains(detail, "remote") {
		return LabelRemote
	}
	if strings.Contains(detail, "hybrid") {
		return LabelHybrid
	}

	if containsAny(detail, manchesterKeywords) {
		return LabelManchester
	}
	if containsAny(detail, innerLondon) {
		return LabelInnerLondon
	}
	if containsAny(detail, outerLondon) {
		return LabelOuterLondon
	}
	if containsAny(detail, commuterBelt) {
		return LabelCommuterBelt
	}

	if distanceKm != nil && *distanceKm > 0 {
		switch km := *distanceKm; {
		case km <= 12:
			return LabelInnerLondon
		case km <= 25:
			return LabelOuterLondon
		case km <= 45:
			return LabelCommuterBelt
		}
	}

	if strings.Contains(detail, "london") {
		return LabelOuterLondon
	}
	return LabelRegional
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
