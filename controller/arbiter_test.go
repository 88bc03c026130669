package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/darshanscodesoftwares/chess-arbiter/chessresults"
	"github.com/darshanscodesoftwares/chess-arbiter/db/mockdb"
	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/mock"
)

func TestAddArbiter(t *testing.T) {
	site := chessresults.NewForTest("http://localhost:0")
	ctrl, err := New(clock.New(), testDB.DB, site)
	if err != nil {
		t.Fatalf("error creating new controller: %v", err)
	}

	ctx := context.Background()

	a, err := ctrl.AddArbiter(ctx, "  Farah Khan  ", " farah@example.com ", "")
	if err != nil {
		t.Fatalf("error adding arbiter: %v", err)
	}
	if a.ID <= 0 {
		t.Errorf("expected the new arbiter to have an id, got: %d", a.ID)
	}
	if a.Name != "Farah Khan" {
		t.Errorf("expected the name to be trimmed, got: '%s'", a.Name)
	}
	if a.Email != "farah@example.com" {
		t.Errorf("expected the email to be trimmed, got: '%s'", a.Email)
	}

	list, err := ctrl.ListArbiters(ctx)
	if err != nil {
		t.Fatalf("error listing arbiters: %v", err)
	}
	found := false
	for _, x := range list {
		if x.ID == a.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("new arbiter missing from the list")
	}

	tests := map[string]string{
		"empty name":      "",
		"whitespace name": "   ",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ctrl.AddArbiter(ctx, input, "x@example.com", "")
			if err == nil || err.Error() != "arbiter name must be provided" {
				t.Errorf("expected a name validation error, got: %v", err)
			}
		})
	}
}

func TestAddArbiter_dbError(t *testing.T) {
	mockDB := &mockdb.DB{}
	mockDB.On("AddArbiter", mock.Anything, mock.Anything).Return(errors.New("db error"))

	site := chessresults.NewForTest("http://localhost:0")
	ctrl, err := New(clock.New(), mockDB, site)
	if err != nil {
		t.Fatalf("error creating new controller: %v", err)
	}

	_, err = ctrl.AddArbiter(context.Background(), "Gita Rao", "", "")
	if err == nil || err.Error() != "db error" {
		t.Errorf("expected the db error to be passed through, got: %v", err)
	}
	mockDB.AssertExpectations(t)
}
