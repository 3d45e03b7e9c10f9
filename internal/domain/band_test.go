package domain

import "testing"

func TestComputeBand(t *testing.T) {
	tests := []struct {
		name      string
		alignment float64
		want      AlignmentBand
	}{
		{"thriving - 100", 100, BandThriving},
		{"thriving boundary - 75", 75, BandThriving},
		{"steady - 74.9", 74.9, BandSteady},
		{"steady boundary - 55", 55, BandSteady},
		{"drifting - 54", 54, BandDrifting},
		{"drifting boundary - 35", 35, BandDrifting},
		{"critical - 34.9", 34.9, BandCritical},
		{"critical - 0", 0, BandCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBand(tt.alignment)
			if got != tt.want {
				t.Errorf("ComputeBand(%v) = %v, want %v", tt.alignment, got, tt.want)
			}
		})
	}
}

func TestBandReason(t *testing.T) {
	if got := BandReason(80); got != "alignment >= 75" {
		t.Errorf("BandReason(80) = %q", got)
	}
	if got := BandReason(10); got != "alignment < 35" {
		t.Errorf("BandReason(10) = %q", got)
	}
}

func TestBandTone_CoversEveryBand(t *testing.T) {
	for score := 0.0; score <= 100; score += 5 {
		b := ComputeBand(score)
		if _, ok := BandTone[b]; !ok {
			t.Errorf("missing tone for band %s (score %v)", b, score)
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name       string
		completion float64
		explicit   MilestoneStatus
		want       MilestoneStatus
	}{
		{"untouched", 0, "", MilestoneStatusPlanned},
		{"partial", 40, "", MilestoneStatusActive},
		{"explicit active", 0, MilestoneStatusActive, MilestoneStatusActive},
		{"complete", 100, "", MilestoneStatusDone},
		{"explicit done", 20, MilestoneStatusDone, MilestoneStatusDone},
		{"over complete", 140, MilestoneStatusPlanned, MilestoneStatusDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.completion, tt.explicit); got != tt.want {
				t.Errorf("DeriveStatus(%v, %q) = %v, want %v", tt.completion, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestMilestoneType_Dimension(t *testing.T) {
	for _, d := range Dimensions() {
		mt := TypeForDimension(d)
		got, ok := mt.Dimension()
		if !ok || got != d {
			t.Errorf("round trip for %s gave %s (ok=%v)", d, got, ok)
		}
	}
	if _, ok := MilestoneTypeCustom.Dimension(); ok {
		t.Error("Custom milestones should not map to a dimension")
	}
}
