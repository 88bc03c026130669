package controller

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/darshanscodesoftwares/chess-arbiter/chessresults"
	"github.com/darshanscodesoftwares/chess-arbiter/db"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/darshanscodesoftwares/chess-arbiter/testutils"
	"github.com/itbasis/go-clock"
)

func newTestController(t *testing.T) C {
	t.Helper()
	site := chessresults.NewForTest("http://localhost:0")
	ctrl, err := New(clock.New(), testDB.DB, site)
	if err != nil {
		t.Fatalf("error creating new controller: %v", err)
	}
	return ctrl
}

// Walks a round through its whole assignment lifecycle: two arbiters split
// ten boards, an overlapping attempt is rejected, and availability counts
// down to zero.
func TestAssignmentLifecycle(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()
	dbKey := nextDBKey()
	pairings := testutils.TestPairings()

	req := CreateAssignmentRequest{
		DBKey:     dbKey,
		SidKey:    "sid",
		Round:     3,
		ArbiterID: testutils.ArbiterAlice.ID,
		BoardFrom: 1,
		BoardTo:   5,
		Pairings:  pairings,
	}
	first, err := ctrl.CreateAssignment(ctx, req)
	if err != nil {
		t.Fatalf("error creating first assignment: %v", err)
	}
	if len(first.Token) != 32 {
		t.Errorf("expected a token on the new assignment, got: '%s'", first.Token)
	}
	if first.ArbiterName != testutils.ArbiterAlice.Name {
		t.Errorf("arbiter name incorrect, got: '%s'", first.ArbiterName)
	}
	if len(first.Pairings) != 5 || first.Pairings[0].Board != 1 || first.Pairings[4].Board != 5 {
		t.Errorf("snapshot should cover boards 1-5, got: %v", first.Pairings)
	}

	av, err := ctrl.GetAvailability(ctx, dbKey, 3, len(pairings))
	if err != nil {
		t.Fatalf("error getting availability: %v", err)
	}
	if av.AssignedCount != 5 || av.RemainingCount != 5 {
		t.Errorf("expected 5 assigned and 5 remaining, got: %d and %d", av.AssignedCount, av.RemainingCount)
	}

	// Boards 4-8 collide with the first range.
	req.ArbiterID = testutils.ArbiterBob.ID
	req.BoardFrom, req.BoardTo = 4, 8
	_, err = ctrl.CreateAssignment(ctx, req)
	if !errors.Is(err, db.ErrRangeOverlap) {
		t.Fatalf("expected a range overlap error, got: %v", err)
	}

	req.BoardFrom, req.BoardTo = 6, 10
	second, err := ctrl.CreateAssignment(ctx, req)
	if err != nil {
		t.Fatalf("error creating second assignment: %v", err)
	}

	av, err = ctrl.GetAvailability(ctx, dbKey, 3, len(pairings))
	if err != nil {
		t.Fatalf("error getting availability: %v", err)
	}
	if av.AssignedCount != 10 || av.RemainingCount != 0 {
		t.Errorf("expected 10 assigned and 0 remaining, got: %d and %d", av.AssignedCount, av.RemainingCount)
	}
	exSummaries := []model.AssignmentSummary{
		{Arbiter: testutils.ArbiterAlice.Name, BoardFrom: 1, BoardTo: 5},
		{Arbiter: testutils.ArbiterBob.Name, BoardFrom: 6, BoardTo: 10},
	}
	if !reflect.DeepEqual(exSummaries, av.Assignments) {
		t.Errorf("summaries are not as expected, got: %v", av.Assignments)
	}

	got, err := ctrl.GetAssignmentByToken(ctx, second.Token)
	if err != nil {
		t.Fatalf("error getting assignment by token: %v", err)
	}
	if got.BoardFrom != 6 || got.BoardTo != 10 || got.IsSubmitted {
		t.Errorf("assignment loaded by token is not as expected: %+v", got)
	}
}

func TestCreateAssignment_validation(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()
	pairings := testutils.TestPairings()

	tests := map[string]struct {
		req   CreateAssignmentRequest
		exErr error
	}{
		"no dbKey": {
			req:   CreateAssignmentRequest{SidKey: "s", Round: 1, BoardFrom: 1, BoardTo: 2, Pairings: pairings},
			exErr: ErrMissingTournamentContext,
		},
		"no sidKey": {
			req:   CreateAssignmentRequest{DBKey: "d", Round: 1, BoardFrom: 1, BoardTo: 2, Pairings: pairings},
			exErr: ErrMissingTournamentContext,
		},
		"round 0": {
			req:   CreateAssignmentRequest{DBKey: "d", SidKey: "s", BoardFrom: 1, BoardTo: 2, Pairings: pairings},
			exErr: ErrMissingTournamentContext,
		},
		"no pairings": {
			req:   CreateAssignmentRequest{DBKey: "d", SidKey: "s", Round: 1, BoardFrom: 1, BoardTo: 2},
			exErr: ErrMissingTournamentContext,
		},
		"from below 1": {
			req:   CreateAssignmentRequest{DBKey: "d", SidKey: "s", Round: 1, BoardFrom: 0, BoardTo: 2, Pairings: pairings},
			exErr: ErrRangeInvalid,
		},
		"inverted range": {
			req:   CreateAssignmentRequest{DBKey: "d", SidKey: "s", Round: 1, BoardFrom: 5, BoardTo: 4, Pairings: pairings},
			exErr: ErrRangeInvalid,
		},
		"past last board": {
			req:   CreateAssignmentRequest{DBKey: "d", SidKey: "s", Round: 1, BoardFrom: 8, BoardTo: 11, Pairings: pairings},
			exErr: ErrRangeInvalid,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			tc.req.ArbiterID = testutils.ArbiterAlice.ID
			_, err := ctrl.CreateAssignment(ctx, tc.req)
			if !errors.Is(err, tc.exErr) {
				t.Errorf("expected %v, got: %v", tc.exErr, err)
			}
		})
	}
}

func TestCreateAssignment_unknownArbiter(t *testing.T) {
	ctrl := newTestController(t)

	req := CreateAssignmentRequest{
		DBKey:     nextDBKey(),
		SidKey:    "sid",
		Round:     1,
		ArbiterID: 999999,
		BoardFrom: 1,
		BoardTo:   5,
		Pairings:  testutils.TestPairings(),
	}
	_, err := ctrl.CreateAssignment(context.Background(), req)
	if !errors.Is(err, db.ErrArbiterNotFound) {
		t.Errorf("expected an arbiter not found error, got: %v", err)
	}
}

func TestGetAvailability_clampsWhenOverAssigned(t *testing.T) {
	ctrl := newTestController(t)
	ctx := context.Background()
	dbKey := nextDBKey()

	req := CreateAssignmentRequest{
		DBKey:     dbKey,
		SidKey:    "sid",
		Round:     1,
		ArbiterID: testutils.ArbiterAlice.ID,
		BoardFrom: 1,
		BoardTo:   10,
		Pairings:  testutils.TestPairings(),
	}
	if _, err := ctrl.CreateAssignment(ctx, req); err != nil {
		t.Fatalf("error creating assignment: %v", err)
	}

	// A rescrape can report fewer boards than were assigned earlier.
	av, err := ctrl.GetAvailability(ctx, dbKey, 1, 8)
	if err != nil {
		t.Fatalf("error getting availability: %v", err)
	}
	if av.RemainingCount != 0 {
		t.Errorf("expected the remaining count to clamp at 0, got: %d", av.RemainingCount)
	}
	if av.AssignedCount != 10 {
		t.Errorf("expected the assigned count to stay honest, got: %d", av.AssignedCount)
	}
}
