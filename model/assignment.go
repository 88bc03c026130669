package model

import "time"

// Assignment delegates a contiguous board range of one round to an arbiter.
// The token is the only credential the arbiter needs. Pairings are a
// snapshot taken when the assignment is created and are never re-synced
// from the live pairing list, even if the round is scraped again.
type Assignment struct {
	Token       string         `json:"token"`
	DBKey       string         `json:"dbKey"`
	SidKey      string         `json:"sidKey"`
	Round       int            `json:"round"`
	ArbiterID   int32          `json:"arbiterId"`
	ArbiterName string         `json:"arbiterName,omitempty"`
	BoardFrom   int            `json:"boardFrom"`
	BoardTo     int            `json:"boardTo"`
	Pairings    []Pairing      `json:"pairings"`
	Results     map[int]Result `json:"results"`
	IsSubmitted bool           `json:"isSubmitted"`
	SubmittedAt time.Time      `json:"submittedAt,omitempty"`
	Created     time.Time      `json:"createdAt"`
}

// BoardCount returns the number of boards covered by the assignment range.
func (a *Assignment) BoardCount() int {
	return a.BoardTo - a.BoardFrom + 1
}

// InRange reports whether board falls inside [BoardFrom, BoardTo].
func (a *Assignment) InRange(board int) bool {
	return board >= a.BoardFrom && board <= a.BoardTo
}

// RangesOverlap reports whether the two inclusive board ranges intersect.
func RangesOverlap(aFrom, aTo, bFrom, bTo int) bool {
	return max(aFrom, bFrom) <= min(aTo, bTo)
}

// Availability summarizes how much of a round is already delegated.
type Availability struct {
	TotalBoards    int                 `json:"totalBoards"`
	AssignedCount  int                 `json:"assignedCount"`
	RemainingCount int                 `json:"remainingCount"`
	Assignments    []AssignmentSummary `json:"assignments"`
}

type AssignmentSummary struct {
	Arbiter   string `json:"arbiter"`
	BoardFrom int    `json:"boardFrom"`
	BoardTo   int    `json:"boardTo"`
}
