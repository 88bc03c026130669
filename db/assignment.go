package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/darshanscodesoftwares/chess-arbiter/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func (db *postgresDB) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	const lockQuery = `SELECT pg_advisory_xact_lock(hashtext(@scope))`

	const rangeQuery = `SELECT board_from, board_to FROM assignments
		WHERE db_key=@dbKey AND round=@round`

	const insert = `INSERT INTO assignments (
		token,
		db_key,
		sid_key,
		round,
		arbiter_id,
		board_from,
		board_to,
		pairings,
		results,
		created
	) VALUES (
		@token,
		@dbKey,
		@sidKey,
		@round,
		@arbiterID,
		@boardFrom,
		@boardTo,
		@pairings,
		'{}',
		@created
	)`

	pairings, err := json.Marshal(a.Pairings)
	if err != nil {
		return fmt.Errorf("error encoding pairings snapshot: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Serialize all creates for the same (dbKey, round) so the overlap check
	// cannot run against a stale view. The lock is released at commit.
	scope := fmt.Sprintf("assignments:%s:%d", a.DBKey, a.Round)
	if _, err := tx.Exec(ctx, lockQuery, pgx.NamedArgs{"scope": scope}); err != nil {
		return fmt.Errorf("error taking round lock: %w", err)
	}

	rows, err := tx.Query(ctx, rangeQuery, pgx.NamedArgs{"dbKey": a.DBKey, "round": a.Round})
	if err != nil {
		return fmt.Errorf("error reading existing ranges: %w", err)
	}
	type boardRange struct{ from, to int }
	existing := make([]boardRange, 0, 8)
	for rows.Next() {
		var r boardRange
		if err := rows.Scan(&r.from, &r.to); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning existing range: %w", err)
		}
		existing = append(existing, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating existing ranges: %w", err)
	}

	for _, r := range existing {
		if model.RangesOverlap(r.from, r.to, a.BoardFrom, a.BoardTo) {
			return ErrRangeOverlap
		}
	}

	created := pgtype.Timestamptz{
		Time:  db.clock.Now().UTC(),
		Valid: true,
	}
	args := pgx.NamedArgs{
		"token":     a.Token,
		"dbKey":     a.DBKey,
		"sidKey":    a.SidKey,
		"round":     a.Round,
		"arbiterID": a.ArbiterID,
		"boardFrom": a.BoardFrom,
		"boardTo":   a.BoardTo,
		"pairings":  pairings,
		"created":   created,
	}
	if _, err := tx.Exec(ctx, insert, args); err != nil {
		return fmt.Errorf("error inserting assignment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing assignment transaction: %w", err)
	}

	a.Created = created.Time
	if a.Results == nil {
		a.Results = make(map[int]model.Result)
	}
	return nil
}

func (db *postgresDB) GetAssignment(ctx context.Context, token string) (*model.Assignment, error) {
	const query = `SELECT a.token, a.db_key, a.sid_key, a.round, a.arbiter_id, r.name,
			a.board_from, a.board_to, a.pairings, a.results,
			a.is_submitted, a.submitted_at, a.created
		FROM assignments a JOIN arbiters r ON r.id = a.arbiter_id
		WHERE a.token=@token`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"token": token})
	a, err := scanAssignment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("error reading assignment: %w", err)
	}
	return a, nil
}

func (db *postgresDB) ListAssignments(ctx context.Context, dbKey string, round int) ([]model.Assignment, error) {
	const query = `SELECT a.token, a.db_key, a.sid_key, a.round, a.arbiter_id, r.name,
			a.board_from, a.board_to, a.pairings, a.results,
			a.is_submitted, a.submitted_at, a.created
		FROM assignments a JOIN arbiters r ON r.id = a.arbiter_id
		WHERE a.db_key=@dbKey AND a.round=@round
		ORDER BY a.created`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"dbKey": dbKey, "round": round})
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	results := make([]model.Assignment, 0, 8)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *a)
	}

	return results, nil
}

func (db *postgresDB) SaveResults(ctx context.Context, token string, results map[int]model.Result) error {
	// The jsonb || merge overwrites exactly the boards named in the patch.
	// The is_submitted guard lives in the statement itself so a racing
	// submit cannot let an autosave slip through after the lock.
	const update = `UPDATE assignments SET results = results || @patch
		WHERE token=@token AND is_submitted=FALSE`

	patch, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("error encoding results patch: %w", err)
	}

	tag, err := db.pool.Exec(ctx, update, pgx.NamedArgs{"token": token, "patch": patch})
	if err != nil {
		return fmt.Errorf("error saving results: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.lockedOrMissing(ctx, token)
	}
	return nil
}

func (db *postgresDB) SubmitAssignment(ctx context.Context, token string) (time.Time, error) {
	const update = `UPDATE assignments
		SET is_submitted=TRUE, submitted_at=@now
		WHERE token=@token AND is_submitted=FALSE
		RETURNING submitted_at`

	args := pgx.NamedArgs{
		"token": token,
		"now": pgtype.Timestamptz{
			Time:  db.clock.Now().UTC(),
			Valid: true,
		},
	}

	var submitted pgtype.Timestamptz
	err := db.pool.QueryRow(ctx, update, args).Scan(&submitted)
	if err == nil {
		return submitted.Time, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, fmt.Errorf("error submitting assignment: %w", err)
	}

	// Already locked or unknown token. Report the original submission time
	// for the locked case so the caller can surface it.
	const existing = `SELECT submitted_at FROM assignments WHERE token=@token`
	if err := db.pool.QueryRow(ctx, existing, pgx.NamedArgs{"token": token}).Scan(&submitted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrAssignmentNotFound
		}
		return time.Time{}, fmt.Errorf("error reading submitted assignment: %w", err)
	}
	return submitted.Time, ErrAlreadySubmitted
}

// lockedOrMissing decides which error a zero-row conditional update means.
func (db *postgresDB) lockedOrMissing(ctx context.Context, token string) error {
	const query = `SELECT is_submitted FROM assignments WHERE token=@token`

	var submitted bool
	if err := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"token": token}).Scan(&submitted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		return fmt.Errorf("error reading assignment state: %w", err)
	}
	if submitted {
		return ErrAlreadySubmitted
	}
	return fmt.Errorf("assignment update affected no rows for token %s", token)
}

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	var result model.Assignment
	var pairings, results []byte
	var submittedAt, created pgtype.Timestamptz
	err := row.Scan(
		&result.Token,
		&result.DBKey,
		&result.SidKey,
		&result.Round,
		&result.ArbiterID,
		&result.ArbiterName,
		&result.BoardFrom,
		&result.BoardTo,
		&pairings,
		&results,
		&result.IsSubmitted,
		&submittedAt,
		&created)

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(pairings, &result.Pairings); err != nil {
		return nil, fmt.Errorf("error decoding pairings snapshot: %w", err)
	}
	if err := json.Unmarshal(results, &result.Results); err != nil {
		return nil, fmt.Errorf("error decoding results: %w", err)
	}

	result.SubmittedAt = submittedAt.Time
	result.Created = created.Time
	return &result, nil
}
