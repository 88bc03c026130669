package controller

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/darshanscodesoftwares/chess-arbiter/testutils"
)

// A global testDB instance to use for all of the tests instead of setting up a new one each time.
var testDB *testutils.TestDB

// a counter to keep each test's tournament separate from the others.
var dbKeyCtr = int32(0)

// TestMain controls the main for the tests and allows for setup and shutdown of the tests
func TestMain(m *testing.M) {
	defer func() {
		// Catch all panics to make sure the shutdown is successfully run
		if r := recover(); r != nil {
			if testDB != nil {
				testDB.Shutdown()
			}
			fmt.Printf("panic - %v\n", r)
		}
	}()

	// Setup the global testDB variable
	testDB = testutils.NewTestDB()
	defer testDB.Shutdown()
	code := m.Run()
	os.Exit(code)
}

func nextDBKey() string {
	return fmt.Sprintf("db%d", atomic.AddInt32(&dbKeyCtr, 1))
}

func TestNewToken(t *testing.T) {
	t1, err := newToken()
	if err != nil {
		t.Fatalf("error minting token: %v", err)
	}
	t2, err := newToken()
	if err != nil {
		t.Fatalf("error minting token: %v", err)
	}

	if len(t1) != 32 {
		t.Errorf("expected a 32 char hex token, got: '%s'", t1)
	}
	if t1 == t2 {
		t.Errorf("two tokens must never collide: '%s'", t1)
	}
}
