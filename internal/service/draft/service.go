// Package draft persists an in-progress booking selection across an
// authentication interruption. Two independent best-effort stores back it: a
// durable one and a TTL-bounded page-scoped mirror. Neither store is the
// system of record for a completed booking, so partial write success is an
// accepted outcome and the pair is never treated as a transaction.
package draft

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/venuebook/bookgo/internal/domain"
	"github.com/venuebook/bookgo/internal/repository"
)

// DurableStore is the device-local analogue: it keeps the raw draft payload
// and, when present, the raw attachment bytes.
type DurableStore interface {
	SaveDraftBundle(ctx context.Context, userID string, payload, attachment []byte) error
	LoadDraftBundle(ctx context.Context, userID string) (payload, attachment []byte, err error)
	ClearDraftBundle(ctx context.Context, userID string) error
}

// MirrorStore is the page-scoped analogue: it keeps the draft payload plus a
// text-encoded (data-URI) form of the attachment.
type MirrorStore interface {
	SetDraft(ctx context.Context, userID string, payload []byte) error
	SetAttachment(ctx context.Context, userID, encoded string) error
	GetDraft(ctx context.Context, userID string) ([]byte, bool, error)
	GetAttachment(ctx context.Context, userID string) (string, bool, error)
	Clear(ctx context.Context, userID string) error
}

type Service struct {
	durable DurableStore
	mirror  MirrorStore
	logger  *slog.Logger
}

func New(durable DurableStore, mirror MirrorStore, logger *slog.Logger) *Service {
	return &Service{
		durable: durable,
		mirror:  mirror,
		logger:  logger,
	}
}

// Save writes the draft to both stores. Each write is fire-and-forget:
// failure of either store is logged and swallowed, and never fails the other
// store or the caller. The caller must be able to navigate away immediately
// after Save returns.
func (s *Service) Save(ctx context.Context, userID string, d domain.BookingDraft) {
	const op = "service.draft.Save"

	payload, err := json.Marshal(stripAttachment(d))
	if err != nil {
		s.logger.Warn("draft not persisted", "op", op, "error", err)
		return
	}

	var rawAttachment []byte
	if d.Attachment != nil {
		rawAttachment = d.Attachment.Data
	}

	if s.durable != nil {
		if err := s.durable.SaveDraftBundle(ctx, userID, payload, rawAttachment); err != nil {
			s.logger.Warn("durable draft write failed", "op", op, "error", err)
		}
	}

	if s.mirror != nil {
		if err := s.mirror.SetDraft(ctx, userID, payload); err != nil {
			s.logger.Warn("mirror draft write failed", "op", op, "error", err)
		}
		if d.Attachment != nil && len(d.Attachment.Data) > 0 {
			if err := s.mirror.SetAttachment(ctx, userID, EncodeAttachment(*d.Attachment)); err != nil {
				s.logger.Warn("mirror attachment write failed", "op", op, "error", err)
			}
		}
	}
}

// Load restores a pending draft: durable store first, page-scoped mirror as
// fallback. Returns nil when neither store yields a parsable draft; callers
// must tolerate that.
func (s *Service) Load(ctx context.Context, userID string) *domain.BookingDraft {
	const op = "service.draft.Load"

	if s.durable != nil {
		payload, attachment, err := s.durable.LoadDraftBundle(ctx, userID)
		if err == nil {
			if d, ok := decodeDraft(payload); ok {
				if len(attachment) > 0 {
					if d.Attachment == nil {
						d.Attachment = &domain.Attachment{}
					}
					d.Attachment.Data = attachment
				}
				return d
			}
		} else if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("durable draft read failed", "op", op, "error", err)
		}
	}

	if s.mirror != nil {
		payload, ok, err := s.mirror.GetDraft(ctx, userID)
		if err != nil {
			s.logger.Warn("mirror draft read failed", "op", op, "error", err)
			return nil
		}
		if !ok {
			return nil
		}

		d, valid := decodeDraft(payload)
		if !valid {
			return nil
		}

		if encoded, ok, err := s.mirror.GetAttachment(ctx, userID); err == nil && ok {
			if att, err := DecodeAttachment(encoded); err == nil {
				d.Attachment = &att
			}
		}

		return d
	}

	return nil
}

// Clear deletes the draft from both stores. Best-effort; never errors.
func (s *Service) Clear(ctx context.Context, userID string) {
	const op = "service.draft.Clear"

	if s.durable != nil {
		if err := s.durable.ClearDraftBundle(ctx, userID); err != nil {
			s.logger.Warn("durable draft clear failed", "op", op, "error", err)
		}
	}

	if s.mirror != nil {
		if err := s.mirror.Clear(ctx, userID); err != nil {
			s.logger.Warn("mirror draft clear failed", "op", op, "error", err)
		}
	}
}

// EncodeAttachment renders an attachment as a data-URI so the page-scoped
// store only ever holds text.
func EncodeAttachment(a domain.Attachment) string {
	mime := a.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// DecodeAttachment parses a data-URI back into attachment bytes.
func DecodeAttachment(encoded string) (domain.Attachment, error) {
	rest, ok := strings.CutPrefix(encoded, "data:")
	if !ok {
		return domain.Attachment{}, fmt.Errorf("not a data URI")
	}

	mime, b64, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return domain.Attachment{}, fmt.Errorf("missing base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("decode attachment: %w", err)
	}

	return domain.Attachment{MIMEType: mime, Data: data}, nil
}

// stripAttachment drops raw attachment bytes from the JSON payload; the
// attachment travels separately in each store's own representation.
func stripAttachment(d domain.BookingDraft) domain.BookingDraft {
	if d.Attachment == nil {
		return d
	}
	att := *d.Attachment
	att.Data = nil
	if att.MIMEType == "" && att.URI == "" {
		d.Attachment = nil
	} else {
		d.Attachment = &att
	}
	return d
}

func decodeDraft(payload []byte) (*domain.BookingDraft, bool) {
	if len(payload) == 0 {
		return nil, false
	}
	var d domain.BookingDraft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, false
	}
	return &d, true
}
