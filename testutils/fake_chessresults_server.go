package testutils

import (
	"embed"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

//go:embed chessdata
var chessdata embed.FS

// FakeChessResultsServer serves canned chess-results.com pages. The keys
// page belongs to tournament 745912 with sidKey b91f2a77, round 3, and the
// pairing table has 10 boards.
type FakeChessResultsServer struct {
	s *httptest.Server

	// Delay applied to pairing requests, for exercising the single-flight
	// guard. Zero by default.
	PairingsDelay time.Duration

	pairingsCalls atomic.Int32
}

func NewFakeChessResultsServer() *FakeChessResultsServer {
	f := &FakeChessResultsServer{}

	r := chi.NewRouter()
	r.Get("/tnr745912.aspx", func(w http.ResponseWriter, r *http.Request) {
		serveFile(w, "keys.html")
	})
	r.Get("/pairings.aspx", f.pairingsHandler)

	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeChessResultsServer) Close() {
	f.s.Close()
}

func (f *FakeChessResultsServer) URL() string {
	return f.s.URL
}

// PairingsCalls reports how many pairing scrapes actually reached the
// server, letting tests assert that rejected callers never hit upstream.
func (f *FakeChessResultsServer) PairingsCalls() int {
	return int(f.pairingsCalls.Load())
}

func (f *FakeChessResultsServer) pairingsHandler(w http.ResponseWriter, r *http.Request) {
	f.pairingsCalls.Add(1)
	if f.PairingsDelay > 0 {
		time.Sleep(f.PairingsDelay)
	}

	q := r.URL.Query()
	if q.Get("db") != "745912" || q.Get("sid") != "b91f2a77" {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "unknown tournament")
		return
	}

	serveFile(w, "pairings.html")
}

func serveFile(w http.ResponseWriter, name string) {
	b, err := chessdata.ReadFile(fmt.Sprintf("chessdata/%s", name))
	if err != nil {
		log.Printf("error reading file %s: %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
