package models

// TierRank is a derived incentive category for teachers.
type TierRank string

const (
	TierRookie TierRank = "Rookie"
	TierPro    TierRank = "Pro"
	TierElite  TierRank = "Elite"
	TierLegend TierRank = "Legend"
)

// Tier describes a teacher's commission bracket and progress toward the
// next one. Always derived, never persisted.
type Tier struct {
	Rank              TierRank `json:"rank"`
	CommissionPercent int      `json:"commission_percent"`
	NextRank          TierRank `json:"next_rank,omitempty"`
	ProgressPercent   float64  `json:"progress_percent"`
	Requirement       string   `json:"requirement"`
}
