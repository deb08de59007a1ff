package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	redisx "github.com/venuebook/bookgo/internal/redis"
)

// DraftMirror is the page-scoped half of the two-store draft persistence: a
// TTL-bounded per-user mirror. Entries expire with the session, so the
// durable store is always consulted first on load.
type DraftMirror struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDraftMirror(rdb *redis.Client, ttl time.Duration) *DraftMirror {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &DraftMirror{rdb: rdb, ttl: ttl}
}

func (m *DraftMirror) SetDraft(ctx context.Context, userID string, payload []byte) error {
	return m.rdb.Set(ctx, redisx.KeyDraft(userID), payload, m.ttl).Err()
}

// SetAttachment stores the text-encoded (data-URI) attachment form.
func (m *DraftMirror) SetAttachment(ctx context.Context, userID, encoded string) error {
	return m.rdb.Set(ctx, redisx.KeyDraftAttachment(userID), encoded, m.ttl).Err()
}

func (m *DraftMirror) GetDraft(ctx context.Context, userID string) ([]byte, bool, error) {
	s, err := m.rdb.Get(ctx, redisx.KeyDraft(userID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(s), true, nil
}

func (m *DraftMirror) GetAttachment(ctx context.Context, userID string) (string, bool, error) {
	s, err := m.rdb.Get(ctx, redisx.KeyDraftAttachment(userID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func (m *DraftMirror) Clear(ctx context.Context, userID string) error {
	return m.rdb.Del(ctx, redisx.KeyDraft(userID), redisx.KeyDraftAttachment(userID)).Err()
}
