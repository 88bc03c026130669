package controller

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
)

func (c *controller) ResolveTournament(ctx context.Context, sourceURL string) (*model.TournamentKeys, error) {
	sourceURL = strings.TrimSpace(sourceURL)

	keys, err := c.site.ResolveKeys(sourceURL)
	if err != nil {
		return nil, err
	}

	// Record the tournament so it can be picked again later. Re-resolving a
	// known tournament refreshes its session key, which rotates upstream.
	if _, err := c.db.UpsertTournament(ctx, keys, sourceURL); err != nil {
		return nil, fmt.Errorf("error recording tournament %s: %w", keys.DBKey, err)
	}
	log.Printf("resolved tournament %s (round %d)", keys.DBKey, keys.Round)

	return keys, nil
}

func (c *controller) FetchPairings(ctx context.Context, dbKey, sidKey string, round int) ([]model.Pairing, error) {
	if dbKey == "" || sidKey == "" || round <= 0 {
		return nil, ErrMissingTournamentContext
	}
	return c.site.FetchPairings(dbKey, sidKey, round)
}

func (c *controller) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	return c.db.ListTournaments(ctx)
}
