package model

import (
	"fmt"
)

// Result codes are stored and exported exactly as written here. The draw is
// persisted as "1/2", never as the display glyph.
type Result string

const (
	ResultUnset        Result = ""
	ResultWhiteWins    Result = "1-0"
	ResultBlackWins    Result = "0-1"
	ResultDraw         Result = "1/2"
	ResultWhiteForfeit Result = "1-0F"
	ResultBlackForfeit Result = "0-1F"
	ResultDoubleForfeit Result = "0-0F"
)

// ParseResult validates a result code against the closed set. The empty
// string is a valid "not yet entered" value.
func ParseResult(s string) (Result, error) {
	switch Result(s) {
	case ResultUnset, ResultWhiteWins, ResultBlackWins, ResultDraw,
		ResultWhiteForfeit, ResultBlackForfeit, ResultDoubleForfeit:
		return Result(s), nil
	default:
		return ResultUnset, fmt.Errorf("unknown result code: %q", s)
	}
}

// BoardResult is one arbiter-entered result for a single board.
type BoardResult struct {
	Board  int    `json:"board"`
	Result Result `json:"result"`
}
