package model

// Pairing is a single board of a round: playerA has white, playerB has
// black. The seed numbers are carried through for the federation export.
// When a Pairing comes out of a merge the Result field holds the recorded
// result code, or "" if no arbiter has entered one yet.
type Pairing struct {
	Board    int    `json:"board"`
	PlayerA  string `json:"playerA"`
	PlayerB  string `json:"playerB"`
	WhiteSNo int    `json:"whiteSNo,omitempty"`
	BlackSNo int    `json:"blackSNo,omitempty"`
	Result   Result `json:"result,omitempty"`
}
