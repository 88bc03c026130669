package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTournamentNotFound error = errors.New("tournament not found")
	ErrArbiterNotFound    error = errors.New("arbiter not found")
	ErrAssignmentNotFound error = errors.New("assignment not found")
	ErrRangeOverlap       error = errors.New("board range overlaps an existing assignment")
	ErrAlreadySubmitted   error = errors.New("assignment has already been submitted")
)

func New(ctx context.Context, connString string, clock clock.Clock) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &postgresDB{pool: pool, clock: clock}, nil
}

type postgresDB struct {
	pool  *pgxpool.Pool
	clock clock.Clock
}

func (db *postgresDB) UpsertTournament(ctx context.Context, keys *model.TournamentKeys, baseLink string) (*model.Tournament, error) {
	const query = `INSERT INTO tournaments (db_key, sid_key, name, base_link, created)
		VALUES (@dbKey, @sidKey, @name, @baseLink, @created)
		ON CONFLICT (db_key) DO UPDATE
			SET sid_key=@sidKey, base_link=@baseLink, name=@name
		RETURNING db_key, sid_key, name, base_link, created`

	args := pgx.NamedArgs{
		"dbKey":    keys.DBKey,
		"sidKey":   keys.SidKey,
		"name":     keys.Name,
		"baseLink": baseLink,
		"created": pgtype.Timestamptz{
			Time:  db.clock.Now().UTC(),
			Valid: true,
		},
	}

	row := db.pool.QueryRow(ctx, query, args)
	t, err := scanTournament(row)
	if err != nil {
		return nil, fmt.Errorf("error upserting tournament %s: %w", keys.DBKey, err)
	}
	return t, nil
}

func (db *postgresDB) GetTournament(ctx context.Context, dbKey string) (*model.Tournament, error) {
	const query = `SELECT db_key, sid_key, name, base_link, created
		FROM tournaments WHERE db_key=@dbKey`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"dbKey": dbKey})
	t, err := scanTournament(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("error reading tournament %s: %w", dbKey, err)
	}
	return t, nil
}

func (db *postgresDB) ListTournaments(ctx context.Context) ([]model.Tournament, error) {
	const query = `SELECT db_key, sid_key, name, base_link, created
		FROM tournaments ORDER BY created DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing tournaments: %w", err)
	}

	results := make([]model.Tournament, 0, 8)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *t)
	}

	return results, nil
}

func scanTournament(row pgx.Row) (*model.Tournament, error) {
	var result model.Tournament
	var created pgtype.Timestamptz
	err := row.Scan(
		&result.DBKey,
		&result.SidKey,
		&result.Name,
		&result.BaseLink,
		&created)

	if err != nil {
		return nil, err
	}

	result.Created = created.Time
	return &result, nil
}

func (db *postgresDB) AddArbiter(ctx context.Context, a *model.Arbiter) error {
	const query = `INSERT INTO arbiters (name, email, phone, created)
		VALUES (@name, @email, @phone, @created)
		RETURNING id, created`

	args := pgx.NamedArgs{
		"name": a.Name,
		"email": sql.NullString{
			String: a.Email,
			Valid:  a.Email != "",
		},
		"phone": sql.NullString{
			String: a.Phone,
			Valid:  a.Phone != "",
		},
		"created": pgtype.Timestamptz{
			Time:  db.clock.Now().UTC(),
			Valid: true,
		},
	}

	var created pgtype.Timestamptz
	if err := db.pool.QueryRow(ctx, query, args).Scan(&a.ID, &created); err != nil {
		return fmt.Errorf("error inserting arbiter %s: %w", a.Name, err)
	}
	a.Created = created.Time
	return nil
}

func (db *postgresDB) GetArbiter(ctx context.Context, id int32) (*model.Arbiter, error) {
	const query = `SELECT id, name, email, phone, created FROM arbiters WHERE id=@id`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	a, err := scanArbiter(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArbiterNotFound
		}
		return nil, fmt.Errorf("error reading arbiter %d: %w", id, err)
	}
	return a, nil
}

func (db *postgresDB) ListArbiters(ctx context.Context) ([]model.Arbiter, error) {
	const query = `SELECT id, name, email, phone, created FROM arbiters ORDER BY id`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing arbiters: %w", err)
	}

	results := make([]model.Arbiter, 0, 8)
	for rows.Next() {
		a, err := scanArbiter(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}

	return results, nil
}

func scanArbiter(row pgx.Row) (*model.Arbiter, error) {
	var result model.Arbiter
	var email, phone sql.NullString
	var created pgtype.Timestamptz
	err := row.Scan(
		&result.ID,
		&result.Name,
		&email,
		&phone,
		&created)

	if err != nil {
		return nil, err
	}

	result.Email = valueOrEmpty(email)
	result.Phone = valueOrEmpty(phone)
	result.Created = created.Time
	return &result, nil
}

func valueOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}
