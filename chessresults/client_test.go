package chessresults

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/darshanscodesoftwares/chess-arbiter/testutils"
)

func TestResolveKeys(t *testing.T) {
	fake := testutils.NewFakeChessResultsServer()
	defer fake.Close()
	c := NewForTest(fake.URL())

	keys, err := c.ResolveKeys(fmt.Sprintf("%s/tnr745912.aspx", fake.URL()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ex := &model.TournamentKeys{
		DBKey:  "745912",
		SidKey: "b91f2a77",
		Round:  3,
		Name:   "Mumbai Open 2025",
	}
	if *keys != *ex {
		t.Errorf("keys not as expected, got: %+v", keys)
	}
}

func TestResolveKeys_invalidURL(t *testing.T) {
	fake := testutils.NewFakeChessResultsServer()
	defer fake.Close()
	c := NewForTest(fake.URL())

	tests := map[string]string{
		"not a url":       "::::",
		"wrong path":      fmt.Sprintf("%s/standings.aspx", fake.URL()),
		"missing tnr id":  fmt.Sprintf("%s/tnr.aspx", fake.URL()),
		"relative":        "/tnr745912.aspx",
		"ftp scheme":      "ftp://chess-results.com/tnr745912.aspx",
	}

	for name, url := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.ResolveKeys(url)
			if !errors.Is(err, ErrInvalidSourceURL) {
				t.Errorf("expected ErrInvalidSourceURL, got: %v", err)
			}
		})
	}
}

func TestResolveKeys_upstreamMissing(t *testing.T) {
	fake := testutils.NewFakeChessResultsServer()
	fake.Close() // server is down

	c := NewForTest(fake.URL())
	_, err := c.ResolveKeys(fmt.Sprintf("%s/tnr745912.aspx", fake.URL()))
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got: %v", err)
	}
}

func TestFetchPairings(t *testing.T) {
	fake := testutils.NewFakeChessResultsServer()
	defer fake.Close()
	c := NewForTest(fake.URL())

	pairings, err := c.FetchPairings("745912", "b91f2a77", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pairings) != 10 {
		t.Fatalf("expected 10 pairings, got %d", len(pairings))
	}

	first := model.Pairing{Board: 1, PlayerA: "Anand, Viswanathan", PlayerB: "Carlsen, Magnus", WhiteSNo: 2, BlackSNo: 1}
	if pairings[0] != first {
		t.Errorf("first pairing not as expected: %+v", pairings[0])
	}
	last := model.Pairing{Board: 10, PlayerA: "Sarana, Alexey", PlayerB: "Vachier-Lagrave, M", WhiteSNo: 21, BlackSNo: 18}
	if pairings[9] != last {
		t.Errorf("last pairing not as expected: %+v", pairings[9])
	}
}

func TestFetchPairings_unknownTournament(t *testing.T) {
	fake := testutils.NewFakeChessResultsServer()
	defer fake.Close()
	c := NewForTest(fake.URL())

	_, err := c.FetchPairings("000000", "nope", 1)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got: %v", err)
	}
}

// Two simultaneous scrapes of the same tournament: exactly one reaches the
// upstream server, the other is rejected immediately.
func TestFetchPairings_singleFlight(t *testing.T) {
	fake := testutils.NewFakeChessResultsServer()
	defer fake.Close()
	fake.PairingsDelay = 300 * time.Millisecond

	c := NewForTest(fake.URL())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	counts := make([][]model.Pairing, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		counts[0], errs[0] = c.FetchPairings("745912", "b91f2a77", 3)
	}()

	// Give the first goroutine time to take the guard before racing it.
	time.Sleep(50 * time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		counts[1], errs[1] = c.FetchPairings("745912", "b91f2a77", 3)
	}()
	wg.Wait()

	if errs[0] != nil {
		t.Errorf("first scrape should have succeeded: %v", errs[0])
	}
	if len(counts[0]) != 10 {
		t.Errorf("first scrape should have returned data, got %d pairings", len(counts[0]))
	}
	if !errors.Is(errs[1], ErrScrapeInProgress) {
		t.Errorf("second scrape should have been rejected, got: %v", errs[1])
	}
	if fake.PairingsCalls() != 1 {
		t.Errorf("rejected caller must not reach upstream, saw %d calls", fake.PairingsCalls())
	}

	// After the in-flight scrape completes the guard is free again.
	if _, err := c.FetchPairings("745912", "b91f2a77", 3); err != nil {
		t.Errorf("scrape after completion should succeed: %v", err)
	}
}
