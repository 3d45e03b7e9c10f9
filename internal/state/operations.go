package state

import "sort"

// Operation names an accessor exposed through the hub. It doubles as the
// Source of the event published after a mutation.
type Operation string

const (
	OpGetVisionState         Operation = "getVisionState"
	OpListMilestones         Operation = "listMilestones"
	OpGetMilestone           Operation = "getMilestone"
	OpGetDecisionLog         Operation = "getDecisionLog"
	OpGetSnapshotHistory     Operation = "getSnapshotHistory"
	OpGetFinanceSnapshot     Operation = "getFinanceSnapshot"
	OpGetHabitCompletionRate Operation = "getHabitCompletionRate"
	OpListHabits             Operation = "listHabits"

	OpSaveVisionState        Operation = "saveVisionState"
	OpSetNorthStar           Operation = "setNorthStar"
	OpSetThemes              Operation = "setThemes"
	OpSetTarget              Operation = "setTarget"
	OpCreateMilestone        Operation = "createMilestone"
	OpUpdateMilestone        Operation = "updateMilestone"
	OpDeleteMilestone        Operation = "deleteMilestone"
	OpArchiveMilestone       Operation = "archiveMilestone"
	OpRestoreMilestone       Operation = "restoreMilestone"
	OpToggleWeeklyCommitment Operation = "toggleWeeklyCommitment"
	OpClearWeeklyCommitments Operation = "clearWeeklyCommitments"
	OpLogDecision            Operation = "logDecision"
	OpClearDecisionLog       Operation = "clearDecisionLog"
	OpRecordSnapshot         Operation = "recordSnapshot"
	OpSaveFinanceSnapshot    Operation = "saveFinanceSnapshot"
	OpCreateHabit            Operation = "createHabit"
	OpToggleHabit            Operation = "toggleHabit"
	OpDeleteHabit            Operation = "deleteHabit"
	OpResetAll               Operation = "resetAll"
	OpSeedDemo               Operation = "seedDemo"
)

// operationTable classifies every exposed operation. true means mutating.
var operationTable = map[Operation]bool{
	OpGetVisionState:         false,
	OpListMilestones:         false,
	OpGetMilestone:           false,
	OpGetDecisionLog:         false,
	OpGetSnapshotHistory:     false,
	OpGetFinanceSnapshot:     false,
	OpGetHabitCompletionRate: false,
	OpListHabits:             false,

	OpSaveVisionState:        true,
	OpSetNorthStar:           true,
	OpSetThemes:              true,
	OpSetTarget:              true,
	OpCreateMilestone:        true,
	OpUpdateMilestone:        true,
	OpDeleteMilestone:        true,
	OpArchiveMilestone:       true,
	OpRestoreMilestone:       true,
	OpToggleWeeklyCommitment: true,
	OpClearWeeklyCommitments: true,
	OpLogDecision:            true,
	OpClearDecisionLog:       true,
	OpRecordSnapshot:         true,
	OpSaveFinanceSnapshot:    true,
	OpCreateHabit:            true,
	OpToggleHabit:            true,
	OpDeleteHabit:            true,
	OpResetAll:               true,
	OpSeedDemo:               true,
}

// IsMutating reports how op is classified. Operations missing from the
// table are treated as mutating.
func IsMutating(op Operation) bool {
	mutating, ok := operationTable[op]
	return mutating || !ok
}

// Operations lists every classified operation, sorted by name.
func Operations() []Operation {
	out := make([]Operation, 0, len(operationTable))
	for op := range operationTable {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
