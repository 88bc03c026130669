package db

import (
	"context"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

type DB interface {
	// Inserts the tournament if the dbKey has not been seen before; refreshes
	// sidKey, baseLink and name in place otherwise. First-seen dbKey wins,
	// the created timestamp is never touched on update.
	UpsertTournament(ctx context.Context, keys *model.TournamentKeys, baseLink string) (*model.Tournament, error)
	GetTournament(ctx context.Context, dbKey string) (*model.Tournament, error)
	// Lists all known tournaments, newest first.
	ListTournaments(ctx context.Context) ([]model.Tournament, error)

	// Inserts the arbiter and fills in the generated ID and created time.
	AddArbiter(ctx context.Context, a *model.Arbiter) error
	GetArbiter(ctx context.Context, id int32) (*model.Arbiter, error)
	ListArbiters(ctx context.Context) ([]model.Arbiter, error)

	// Inserts the assignment after verifying that its board range does not
	// intersect any existing assignment of the same (dbKey, round). The
	// check-then-insert runs in one transaction serialized per round, so two
	// racing creates cannot both pass validation. Returns ErrRangeOverlap
	// when boards are already claimed.
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	GetAssignment(ctx context.Context, token string) (*model.Assignment, error)
	// Lists the assignments of a round in creation order.
	ListAssignments(ctx context.Context, dbKey string, round int) ([]model.Assignment, error)

	// Overwrites the results of exactly the boards present in the patch,
	// leaving all other boards untouched. Fails with ErrAlreadySubmitted
	// once the assignment is locked.
	SaveResults(ctx context.Context, token string, results map[int]model.Result) error
	// Flips the one-way submit lock and stamps the submission time. If the
	// assignment is already locked the original submission time is returned
	// alongside ErrAlreadySubmitted.
	SubmitAssignment(ctx context.Context, token string) (time.Time, error)
}
