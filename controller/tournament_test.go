package controller

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/darshanscodesoftwares/chess-arbiter/chessresults"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/darshanscodesoftwares/chess-arbiter/testutils"
	"github.com/itbasis/go-clock"
)

func TestResolveTournament(t *testing.T) {
	fakeSite := testutils.NewFakeChessResultsServer()
	defer fakeSite.Close()
	site := chessresults.NewForTest(fakeSite.URL())

	ctrl, err := New(clock.New(), testDB.DB, site)
	if err != nil {
		t.Fatalf("error creating new controller: %v", err)
	}

	ctx := context.Background()

	keys, err := ctrl.ResolveTournament(ctx, fakeSite.URL()+"/tnr745912.aspx")
	if err != nil {
		t.Fatalf("error resolving tournament: %v", err)
	}

	expected := &model.TournamentKeys{
		DBKey:  "745912",
		SidKey: "b91f2a77",
		Round:  3,
		Name:   "Mumbai Open 2025",
	}
	if !reflect.DeepEqual(expected, keys) {
		t.Errorf("keys are not as expected, got: %+v", keys)
	}

	// Resolving the same page again must not produce a second registry entry.
	if _, err := ctrl.ResolveTournament(ctx, fakeSite.URL()+"/tnr745912.aspx"); err != nil {
		t.Fatalf("error re-resolving tournament: %v", err)
	}

	list, err := ctrl.ListTournaments(ctx)
	if err != nil {
		t.Fatalf("error listing tournaments: %v", err)
	}
	count := 0
	for _, trn := range list {
		if trn.DBKey == "745912" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one registry entry for the tournament, got: %d", count)
	}
}

func TestResolveTournament_badURL(t *testing.T) {
	fakeSite := testutils.NewFakeChessResultsServer()
	defer fakeSite.Close()
	site := chessresults.NewForTest(fakeSite.URL())

	ctrl, err := New(clock.New(), testDB.DB, site)
	if err != nil {
		t.Fatalf("error creating new controller: %v", err)
	}

	tests := map[string]string{
		"empty":          "",
		"not a url":      "certainly not a url",
		"wrong path":     fakeSite.URL() + "/fed.aspx?tnr=12",
		"missing number": fakeSite.URL() + "/tnr.aspx",
	}

	for name, url := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ctrl.ResolveTournament(context.Background(), url)
			if !errors.Is(err, chessresults.ErrInvalidSourceURL) {
				t.Errorf("expected an invalid source url error, got: %v", err)
			}
		})
	}
}

func TestFetchPairings(t *testing.T) {
	fakeSite := testutils.NewFakeChessResultsServer()
	defer fakeSite.Close()
	site := chessresults.NewForTest(fakeSite.URL())

	ctrl, err := New(clock.New(), testDB.DB, site)
	if err != nil {
		t.Fatalf("error creating new controller: %v", err)
	}

	ctx := context.Background()

	pairings, err := ctrl.FetchPairings(ctx, "745912", "b91f2a77", 3)
	if err != nil {
		t.Fatalf("error fetching pairings: %v", err)
	}
	if !reflect.DeepEqual(testutils.TestPairings(), pairings) {
		t.Errorf("pairings are not as expected, got: %v", pairings)
	}

	tests := map[string]struct {
		dbKey  string
		sidKey string
		round  int
	}{
		"no dbKey":  {dbKey: "", sidKey: "b91f2a77", round: 3},
		"no sidKey": {dbKey: "745912", sidKey: "", round: 3},
		"round 0":   {dbKey: "745912", sidKey: "b91f2a77", round: 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ctrl.FetchPairings(ctx, tc.dbKey, tc.sidKey, tc.round)
			if !errors.Is(err, ErrMissingTournamentContext) {
				t.Errorf("expected a missing tournament context error, got: %v", err)
			}
		})
	}
}
