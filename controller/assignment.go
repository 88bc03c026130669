package controller

import (
	"context"
	"fmt"
	"log"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

func (c *controller) GetAvailability(ctx context.Context, dbKey string, round, totalBoards int) (*model.Availability, error) {
	if dbKey == "" || round <= 0 {
		return nil, ErrMissingTournamentContext
	}

	assignments, err := c.db.ListAssignments(ctx, dbKey, round)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	av := &model.Availability{
		TotalBoards: totalBoards,
		Assignments: make([]model.AssignmentSummary, 0, len(assignments)),
	}
	for _, a := range assignments {
		av.AssignedCount += a.BoardCount()
		av.Assignments = append(av.Assignments, model.AssignmentSummary{
			Arbiter:   a.ArbiterName,
			BoardFrom: a.BoardFrom,
			BoardTo:   a.BoardTo,
		})
	}

	av.RemainingCount = totalBoards - av.AssignedCount
	if av.RemainingCount < 0 {
		// totalBoards disagrees with what was assigned earlier; clamp and flag.
		log.Printf("availability for %s round %d is inconsistent: %d boards assigned of %d total",
			dbKey, round, av.AssignedCount, totalBoards)
		av.RemainingCount = 0
	}

	return av, nil
}

func (c *controller) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*model.Assignment, error) {
	if req.DBKey == "" || req.SidKey == "" || req.Round <= 0 || len(req.Pairings) == 0 {
		return nil, ErrMissingTournamentContext
	}
	if req.BoardFrom < 1 || req.BoardFrom > req.BoardTo || req.BoardTo > len(req.Pairings) {
		return nil, ErrRangeInvalid
	}

	arbiter, err := c.db.GetArbiter(ctx, req.ArbiterID)
	if err != nil {
		return nil, fmt.Errorf("error looking up arbiter: %w", err)
	}

	// Snapshot the requested sub-range. The snapshot is the assignment's
	// board list from here on; later rescrapes never touch it.
	snapshot := make([]model.Pairing, 0, req.BoardTo-req.BoardFrom+1)
	for _, p := range req.Pairings {
		if p.Board >= req.BoardFrom && p.Board <= req.BoardTo {
			snapshot = append(snapshot, p)
		}
	}
	if len(snapshot) == 0 {
		return nil, ErrRangeInvalid
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	a := &model.Assignment{
		Token:       token,
		DBKey:       req.DBKey,
		SidKey:      req.SidKey,
		Round:       req.Round,
		ArbiterID:   arbiter.ID,
		ArbiterName: arbiter.Name,
		BoardFrom:   req.BoardFrom,
		BoardTo:     req.BoardTo,
		Pairings:    snapshot,
		Results:     make(map[int]model.Result),
	}
	if err := c.db.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}

	log.Printf("assigned boards %d-%d of %s round %d to %s",
		a.BoardFrom, a.BoardTo, a.DBKey, a.Round, arbiter.Name)
	return a, nil
}

func (c *controller) ListAssignments(ctx context.Context, dbKey string, round int) ([]model.Assignment, error) {
	if dbKey == "" || round <= 0 {
		return nil, ErrMissingTournamentContext
	}
	return c.db.ListAssignments(ctx, dbKey, round)
}

func (c *controller) GetAssignmentByToken(ctx context.Context, token string) (*model.Assignment, error) {
	return c.db.GetAssignment(ctx, token)
}
