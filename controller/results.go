package controller

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/db"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

func (c *controller) RecordResults(ctx context.Context, token string, results []model.BoardResult) error {
	a, err := c.db.GetAssignment(ctx, token)
	if err != nil {
		return err
	}
	if a.IsSubmitted {
		return db.ErrAlreadySubmitted
	}

	patch := make(map[int]model.Result, len(results))
	for _, r := range results {
		code, err := model.ParseResult(string(r.Result))
		if err != nil {
			return err
		}
		if !a.InRange(r.Board) {
			return fmt.Errorf("%w: board %d not in %d-%d", ErrBoardNotInRange, r.Board, a.BoardFrom, a.BoardTo)
		}
		patch[r.Board] = code
	}
	if len(patch) == 0 {
		return nil
	}

	return c.db.SaveResults(ctx, token, patch)
}

func (c *controller) SubmitAssignment(ctx context.Context, token string) (time.Time, error) {
	return c.db.SubmitAssignment(ctx, token)
}

func (c *controller) MergedResults(ctx context.Context, dbKey string, round int) ([]model.Pairing, error) {
	if dbKey == "" || round <= 0 {
		return nil, ErrMissingTournamentContext
	}

	assignments, err := c.db.ListAssignments(ctx, dbKey, round)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	if len(assignments) == 0 {
		return nil, ErrNoAssignments
	}

	// Ranges never overlap, so flattening the snapshots yields each board
	// at most once. Boards with no recorded result keep an empty code.
	merged := make([]model.Pairing, 0, 32)
	for _, a := range assignments {
		for _, p := range a.Pairings {
			p.Result = a.Results[p.Board]
			merged = append(merged, p)
		}
	}

	slices.SortFunc(merged, func(a, b model.Pairing) int {
		return a.Board - b.Board
	})

	return merged, nil
}

func (c *controller) ExportRoundXML(ctx context.Context, dbKey string, round int) ([]byte, error) {
	merged, err := c.MergedResults(ctx, dbKey, round)
	if err != nil {
		return nil, err
	}
	return model.RenderInterchangeXML(dbKey, round, merged)
}
