package vision

import (
	"fmt"
	"math"

	"github.com/Harshitk-cp/lifedash/internal/domain"
)

const (
	TensionBlocked       = "blocked"
	TensionOverdue       = "overdue"
	TensionBurnout       = "burnout"
	TensionOverextension = "overextension"
	TensionFinance       = "finance"
	TensionUrgentQueue   = "urgent_queue"
	RiskStable           = "stable"

	maxRiskSignals = 3
)

var riskLabels = map[string]string{
	TensionBlocked:       "Execution blockage",
	TensionOverdue:       "Deadline slippage",
	TensionBurnout:       "Burnout risk",
	TensionOverextension: "Overextension",
	TensionFinance:       "Financial pressure",
	TensionUrgentQueue:   "Urgent queue pressure",
}

// detectTensions evaluates the tension rules in a fixed order and keeps at
// most MaxTensionFlags.
func detectTensions(stats milestoneStats, alignment, drift domain.Scores, queue []domain.ActionItem, ext domain.ExternalReader) []domain.TensionFlag {
	flags := []domain.TensionFlag{}

	if stats.blocked >= 1 {
		flags = append(flags, domain.TensionFlag{
			Kind:     TensionBlocked,
			Severity: severityByCount(stats.blocked),
			Label:    "Blocked milestones",
			Detail:   fmt.Sprintf("%d %s waiting on a blocker", stats.blocked, plural(stats.blocked, "milestone", "milestones")),
		})
	}
	if stats.overdue >= 1 {
		flags = append(flags, domain.TensionFlag{
			Kind:     TensionOverdue,
			Severity: severityByCount(stats.overdue),
			Label:    "Overdue milestones",
			Detail:   fmt.Sprintf("%d %s past due", stats.overdue, plural(stats.overdue, "milestone", "milestones")),
		})
	}
	if drift.Overall < burnoutDriftThreshold && alignment.PhysicalVitality < burnoutVitalityThreshold {
		flags = append(flags, domain.TensionFlag{
			Kind:     TensionBurnout,
			Severity: domain.SeverityHigh,
			Label:    "Burnout signal",
			Detail: fmt.Sprintf("Alignment dropped %d points while physical vitality sits at %d",
				int(math.Abs(drift.Overall)), int(alignment.PhysicalVitality)),
		})
	}
	if stats.open >= overextensionOpenCount && stats.overallMean < overextensionCompletion {
		flags = append(flags, domain.TensionFlag{
			Kind:     TensionOverextension,
			Severity: domain.SeverityMedium,
			Label:    "Overextension",
			Detail: fmt.Sprintf("%d open milestones averaging %d%% completion",
				stats.open, int(math.Round(stats.overallMean))),
		})
	}
	if flag, ok := financeTension(ext); ok {
		flags = append(flags, flag)
	}
	if len(queue) > 0 && queue[0].Priority >= urgentQueuePriority {
		flags = append(flags, domain.TensionFlag{
			Kind:     TensionUrgentQueue,
			Severity: domain.SeverityHigh,
			Label:    "Urgent queue",
			Detail:   fmt.Sprintf("%q is at priority %d", queue[0].Title, queue[0].Priority),
		})
	}

	if len(flags) > MaxTensionFlags {
		flags = flags[:MaxTensionFlags]
	}
	return flags
}

func severityByCount(n int) domain.Severity {
	if n >= 2 {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}

func financeTension(ext domain.ExternalReader) (domain.TensionFlag, bool) {
	if ext == nil {
		return domain.TensionFlag{}, false
	}
	fin, ok := ext.FinanceSnapshot()
	if !ok {
		return domain.TensionFlag{}, false
	}

	if fin.RunwayMonths != nil {
		runway := coerce(*fin.RunwayMonths, math.Inf(1))
		if runway < runwayWarningMonths {
			sev := domain.SeverityMedium
			if runway < runwayCriticalMonths {
				sev = domain.SeverityHigh
			}
			return domain.TensionFlag{
				Kind:     TensionFinance,
				Severity: sev,
				Label:    "Short runway",
				Detail:   fmt.Sprintf("Runway at %.1f months", runway),
			}, true
		}
	}

	expected := coerce(fin.ExpectedIncome, 0)
	pipeline := coerce(fin.Pipeline, 0)
	if expected > 0 && pipeline < pipelineCoverageThreshold*expected {
		return domain.TensionFlag{
			Kind:     TensionFinance,
			Severity: domain.SeverityMedium,
			Label:    "Thin pipeline",
			Detail:   fmt.Sprintf("Pipeline covers %d%% of expected income", int(math.Round(pipeline/expected*100))),
		}, true
	}
	return domain.TensionFlag{}, false
}

// riskSignals re-labels the first three tension flags in evaluation order, or
// emits a single low "stable" signal when nothing is wrong.
func riskSignals(flags []domain.TensionFlag) []domain.RiskSignal {
	if len(flags) == 0 {
		return []domain.RiskSignal{{
			Kind:     RiskStable,
			Severity: domain.SeverityLow,
			Label:    "Stable trajectory",
			Detail:   "No active tension signals",
		}}
	}

	top := flags
	if len(top) > maxRiskSignals {
		top = top[:maxRiskSignals]
	}

	risks := make([]domain.RiskSignal, len(top))
	for i, f := range top {
		label, ok := riskLabels[f.Kind]
		if !ok {
			label = f.Label
		}
		risks[i] = domain.RiskSignal{
			Kind:     f.Kind,
			Severity: f.Severity,
			Label:    label,
			Detail:   f.Detail,
		}
	}
	return risks
}
