package mockdb

import (
	"context"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/stretchr/testify/mock"
)

type DB struct {
	mock.Mock
}

func (db *DB) UpsertTournament(ctx context.Context, keys *model.TournamentKeys, baseLink string) (*model.Tournament, error) {
	args := db.Called(ctx, keys, baseLink)

	var t *model.Tournament
	if args.Get(0) != nil {
		t = args.Get(0).(*model.Tournament)
	}
	return t, args.Error(1)
}

func (db *DB) GetTournament(ctx context.Context, dbKey string) (*model.Tournament, error) {
	args := db.Called(ctx, dbKey)

	var t *model.Tournament
	if args.Get(0) != nil {
		t = args.Get(0).(*model.Tournament)
	}
	return t, args.Error(1)
}

func (db *DB) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	args := db.Called(ctx)

	var r []model.Tournament
	if args.Get(0) != nil {
		r = args.Get(0).([]model.Tournament)
	}
	return r, args.Error(1)
}

func (db *DB) AddArbiter(ctx context.Context, a *model.Arbiter) error {
	args := db.Called(ctx, a)
	return args.Error(0)
}

func (db *DB) GetArbiter(ctx context.Context, id int32) (*model.Arbiter, error) {
	args := db.Called(ctx, id)

	var a *model.Arbiter
	if args.Get(0) != nil {
		a = args.Get(0).(*model.Arbiter)
	}
	return a, args.Error(1)
}

func (db *DB) ListArbiters(ctx context.Context) ([]model.Arbiter, error) {
	args := db.Called(ctx)

	var r []model.Arbiter
	if args.Get(0) != nil {
		r = args.Get(0).([]model.Arbiter)
	}
	return r, args.Error(1)
}

func (db *DB) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	args := db.Called(ctx, a)
	return args.Error(0)
}

func (db *DB) GetAssignment(ctx context.Context, token string) (*model.Assignment, error) {
	args := db.Called(ctx, token)

	var a *model.Assignment
	if args.Get(0) != nil {
		a = args.Get(0).(*model.Assignment)
	}
	return a, args.Error(1)
}

func (db *DB) ListAssignments(ctx context.Context, dbKey string, round int) ([]model.Assignment, error) {
	args := db.Called(ctx, dbKey, round)

	var r []model.Assignment
	if args.Get(0) != nil {
		r = args.Get(0).([]model.Assignment)
	}
	return r, args.Error(1)
}

func (db *DB) SaveResults(ctx context.Context, token string, results map[int]model.Result) error {
	args := db.Called(ctx, token, results)
	return args.Error(0)
}

func (db *DB) SubmitAssignment(ctx context.Context, token string) (time.Time, error) {
	args := db.Called(ctx, token)
	return args.Get(0).(time.Time), args.Error(1)
}
