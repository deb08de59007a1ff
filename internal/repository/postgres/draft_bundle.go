package postgres

import (
	"context"
	"errors"

	"github.com/venuebook/bookgo/internal/repository"
)

// SaveDraftBundle writes the draft payload and its optional attachment in one
// transaction. Atomicity holds within this store only; the redis mirror is
// written independently and best-effort.
func (s *Store) SaveDraftBundle(ctx context.Context, userID string, payload, attachment []byte) error {
	return s.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		drafts := s.Drafts().With(tx)

		if err := drafts.Set(ctx, userID, KeyPendingBooking, payload); err != nil {
			return err
		}

		if attachment == nil {
			return drafts.Delete(ctx, userID, KeyPendingAudio)
		}

		return drafts.Set(ctx, userID, KeyPendingAudio, attachment)
	})
}

// LoadDraftBundle reads the draft payload and attachment for a user. A
// missing attachment is not an error; a missing payload is ErrNotFound.
func (s *Store) LoadDraftBundle(ctx context.Context, userID string) (payload, attachment []byte, err error) {
	drafts := s.Drafts()

	payload, err = drafts.Get(ctx, userID, KeyPendingBooking)
	if err != nil {
		return nil, nil, err
	}

	attachment, err = drafts.Get(ctx, userID, KeyPendingAudio)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return payload, nil, nil
		}
		return nil, nil, err
	}

	return payload, attachment, nil
}

// ClearDraftBundle removes both draft keys for a user.
func (s *Store) ClearDraftBundle(ctx context.Context, userID string) error {
	return s.Drafts().Delete(ctx, userID, KeyPendingBooking, KeyPendingAudio)
}
