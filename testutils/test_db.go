package testutils

import (
	"context"
	"log"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/containers"
	"github.com/darshanscodesoftwares/chess-arbiter/db"
	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/itbasis/go-clock"
)

var (
	ArbiterAlice = &model.Arbiter{
		Name:  "Alice Fernandes",
		Email: "alice@example.com",
		Phone: "555-0142",
	}
	ArbiterBob = &model.Arbiter{
		Name: "Bob Iyer",
	}
)

// TestTime is where the mock clock starts for every TestDB.
var TestTime = time.Date(2025, time.March, 8, 10, 30, 0, 0, time.UTC)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     *clock.Mock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	mock := clock.NewMock()
	mock.Set(TestTime)

	db, err := db.New(context.Background(), container.ConnectionString(), mock)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	if err := InsertTestArbiters(db); err != nil {
		log.Fatalf("error populating db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     mock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

func InsertTestArbiters(db db.DB) error {
	arbiters := []*model.Arbiter{
		ArbiterAlice,
		ArbiterBob,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, a := range arbiters {
		err := db.AddArbiter(ctx, a)
		if err != nil {
			return err
		}
	}

	return nil
}

// TestPairings returns a fresh 10-board pairing list matching the fake
// chess-results server's round 3 table.
func TestPairings() []model.Pairing {
	return []model.Pairing{
		{Board: 1, PlayerA: "Anand, Viswanathan", PlayerB: "Carlsen, Magnus", WhiteSNo: 2, BlackSNo: 1},
		{Board: 2, PlayerA: "Gukesh, D", PlayerB: "Caruana, Fabiano", WhiteSNo: 5, BlackSNo: 3},
		{Board: 3, PlayerA: "So, Wesley", PlayerB: "Nepomniachtchi, Ian", WhiteSNo: 7, BlackSNo: 4},
		{Board: 4, PlayerA: "Erigaisi, Arjun", PlayerB: "Nakamura, Hikaru", WhiteSNo: 9, BlackSNo: 6},
		{Board: 5, PlayerA: "Pragg, R", PlayerB: "Firouzja, Alireza", WhiteSNo: 11, BlackSNo: 8},
		{Board: 6, PlayerA: "Abdusattorov, N", PlayerB: "Aronian, Levon", WhiteSNo: 13, BlackSNo: 10},
		{Board: 7, PlayerA: "Vidit, Santosh", PlayerB: "Giri, Anish", WhiteSNo: 15, BlackSNo: 12},
		{Board: 8, PlayerA: "Keymer, Vincent", PlayerB: "Rapport, Richard", WhiteSNo: 17, BlackSNo: 14},
		{Board: 9, PlayerA: "Niemann, Hans", PlayerB: "Dominguez, Leinier", WhiteSNo: 19, BlackSNo: 16},
		{Board: 10, PlayerA: "Sarana, Alexey", PlayerB: "Vachier-Lagrave, M", WhiteSNo: 21, BlackSNo: 18},
	}
}
