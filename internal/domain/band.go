package domain

// AlignmentBand buckets an overall alignment score for display and narrative.
type AlignmentBand string

const (
	BandThriving AlignmentBand = "thriving"
	BandSteady   AlignmentBand = "steady"
	BandDrifting AlignmentBand = "drifting"
	BandCritical AlignmentBand = "critical"
)

func ComputeBand(alignment float64) AlignmentBand {
	switch {
	case alignment >= 75:
		return BandThriving
	case alignment >= 55:
		return BandSteady
	case alignment >= 35:
		return BandDrifting
	default:
		return BandCritical
	}
}

func BandReason(alignment float64) string {
	switch ComputeBand(alignment) {
	case BandThriving:
		return "alignment >= 75"
	case BandSteady:
		return "55 <= alignment < 75"
	case BandDrifting:
		return "35 <= alignment < 55"
	default:
		return "alignment < 35"
	}
}

// BandTone is the narrative tone used for each band.
var BandTone = map[AlignmentBand]string{
	BandThriving: "energized",
	BandSteady:   "grounded",
	BandDrifting: "restless",
	BandCritical: "strained",
}
