package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Draft store keys mirror the client-side local-storage names so a payload
// written by either side of the system is recognizable in both.
const (
	KeyPendingBooking = "pendingBooking"
	KeyPendingAudio   = "pendingAudioBlob"
)

// DraftRepo is the durable half of the two-store draft persistence: a plain
// per-user key-value table standing in for the device-local store.
//
//	CREATE TABLE draft_store (
//	    user_id    text        NOT NULL,
//	    key        text        NOT NULL,
//	    value      bytea       NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now(),
//	    PRIMARY KEY (user_id, key)
//	);
type DraftRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *DraftRepo) With(db DB) *DraftRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *DraftRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *DraftRepo) Set(ctx context.Context, userID, key string, value []byte) error {
	const op = "postgres.DraftRepo.Set"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO draft_store (user_id, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		userID, key, value,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *DraftRepo) Get(ctx context.Context, userID, key string) ([]byte, error) {
	const op = "postgres.DraftRepo.Get"

	db := r.handle()

	var value []byte
	err := db.QueryRow(ctx,
		`SELECT value FROM draft_store WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&value)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return value, nil
}

func (r *DraftRepo) Delete(ctx context.Context, userID string, keys ...string) error {
	const op = "postgres.DraftRepo.Delete"

	db := r.handle()

	_, err := db.Exec(ctx,
		`DELETE FROM draft_store WHERE user_id = $1 AND key = ANY($2)`,
		userID, keys,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
