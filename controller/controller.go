package controller

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/chessresults"
	"github.com/darshanscodesoftwares/chess-arbiter/db"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/itbasis/go-clock"
)

var (
	ErrRangeInvalid             error = errors.New("board range is malformed or out of bounds")
	ErrMissingTournamentContext error = errors.New("tournament keys, round or pairings are missing")
	ErrBoardNotInRange          error = errors.New("board is outside the assignment's range")
	ErrNoAssignments            error = errors.New("no assignments exist for this round")
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	// Scrapes the customize list page, records the tournament in the
	// registry and returns its keys plus the currently displayed round.
	ResolveTournament(ctx context.Context, sourceURL string) (*model.TournamentKeys, error)
	// Scrapes the pairing table of one round. Subject to the gateway's
	// single-flight policy; see chessresults.ErrScrapeInProgress.
	FetchPairings(ctx context.Context, dbKey, sidKey string, round int) ([]model.Pairing, error)
	ListTournaments(ctx context.Context) ([]model.Tournament, error)

	AddArbiter(ctx context.Context, name, email, phone string) (*model.Arbiter, error)
	ListArbiters(ctx context.Context) ([]model.Arbiter, error)

	// Reports how many of totalBoards are covered by existing assignments
	// of the round and who holds which range.
	GetAvailability(ctx context.Context, dbKey string, round, totalBoards int) (*model.Availability, error)
	// Validates the range, snapshots the pairing sub-range, mints a token
	// and persists the assignment.
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*model.Assignment, error)
	ListAssignments(ctx context.Context, dbKey string, round int) ([]model.Assignment, error)
	GetAssignmentByToken(ctx context.Context, token string) (*model.Assignment, error)

	// Overwrites the results of the listed boards. Idempotent; callable
	// repeatedly until the assignment is submitted.
	RecordResults(ctx context.Context, token string, results []model.BoardResult) error
	// Engages the one-way submission lock. Returns the submission time,
	// which for an already locked assignment is the original one together
	// with db.ErrAlreadySubmitted.
	SubmitAssignment(ctx context.Context, token string) (time.Time, error)
	// Flattens every assignment of the round into one board-ordered result
	// list. Boards nobody entered surface with an empty result.
	MergedResults(ctx context.Context, dbKey string, round int) ([]model.Pairing, error)
	// Renders MergedResults into the federation interchange format.
	ExportRoundXML(ctx context.Context, dbKey string, round int) ([]byte, error)
}

type CreateAssignmentRequest struct {
	DBKey     string
	SidKey    string
	Round     int
	ArbiterID int32
	BoardFrom int
	BoardTo   int
	// The full pairing list of the round as currently known to the caller.
	// The assignment stores only the [BoardFrom, BoardTo] sub-range.
	Pairings []model.Pairing
}

type controller struct {
	clock clock.Clock
	db    db.DB
	site  chessresults.Client
}

func New(clock clock.Clock, db db.DB, site chessresults.Client) (C, error) {
	c := &controller{
		clock: clock,
		db:    db,
		site:  site,
	}
	return c, nil
}

// newToken mints the bearer credential for an assignment: 16 random bytes,
// hex encoded.
func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error minting token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
