// Package flow drives the booking-commit state machine:
//
//	SELECTING -> VALIDATING -> INVALID | VALID -> DRAFT_SAVED
//	          -> AWAITING_AUTH | PROCEED -> PAYMENT_HANDOFF
//
// INVALID returns the caller to SELECTING with the first offending field;
// PAYMENT_HANDOFF is terminal for this engine — the payment collaborator
// takes over from there.
package flow

import (
	"context"
	"fmt"
	"time"

	"github.com/venuebook/bookgo/internal/domain"
	"github.com/venuebook/bookgo/internal/service/draft"
	"github.com/venuebook/bookgo/internal/service/pricing"
)

type State string

const (
	StateSelecting      State = "SELECTING"
	StateValidating     State = "VALIDATING"
	StateInvalid        State = "INVALID"
	StateValid          State = "VALID"
	StateDraftSaved     State = "DRAFT_SAVED"
	StateAwaitingAuth   State = "AWAITING_AUTH"
	StateProceed        State = "PROCEED"
	StatePaymentHandoff State = "PAYMENT_HANDOFF"
)

// ValidationError names the first missing or invalid required selection, in
// the fixed precedence order date, time, duration, guests. It is recoverable:
// the caller completes the field and commits again.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid %s", e.Field)
}

// CommitInput is the composed selection handed over at "proceed".
type CommitInput struct {
	UserID        string
	SpaceID       string
	EventType     string
	Selection     domain.TimeSlotSelection
	Guests        int64
	HourlyRate    float64
	Overrides     domain.PriceOverrideTable
	Addons        []domain.AddonSelection
	Extras        []domain.ExtraCharge
	Attachment    *domain.Attachment
	Authenticated bool
}

// Result reports where the state machine landed. Draft is set from
// DRAFT_SAVED onward; for AWAITING_AUTH the draft is already persisted, so
// the interruption may navigate away and back without losing it.
type Result struct {
	State State
	Draft *domain.BookingDraft
}

type Service struct {
	pricing *pricing.Service
	drafts  *draft.Service
	now     func() time.Time
}

func New(pricingSvc *pricing.Service, drafts *draft.Service) *Service {
	return &Service{
		pricing: pricingSvc,
		drafts:  drafts,
		now:     time.Now,
	}
}

// Validate checks the required selections and reports the first offending
// field in precedence order. A nil return means the selection is complete.
func (s *Service) Validate(sel domain.TimeSlotSelection, guests int64) *ValidationError {
	if sel.Date == "" {
		return &ValidationError{Field: "date"}
	}
	if _, err := time.ParseInLocation("2006-01-02", sel.Date, time.Local); err != nil {
		return &ValidationError{Field: "date"}
	}

	if sel.Time == "" {
		return &ValidationError{Field: "time"}
	}
	if _, err := time.Parse("15:04", sel.Time); err != nil {
		return &ValidationError{Field: "time"}
	}

	if sel.DurationHours < 1 {
		return &ValidationError{Field: "duration"}
	}

	if guests < 1 {
		return &ValidationError{Field: "guests"}
	}

	return nil
}

// Commit runs the state machine for one attempt. On validation failure the
// result is INVALID and the error is the *ValidationError. Otherwise the
// draft is composed, totals recomputed, and persisted BEFORE the
// authentication branch is taken.
func (s *Service) Commit(ctx context.Context, in CommitInput) (Result, error) {
	if verr := s.Validate(in.Selection, in.Guests); verr != nil {
		return Result{State: StateInvalid}, verr
	}

	d := s.compose(in)

	// Persist before any redirect can interrupt the flow.
	s.drafts.Save(ctx, in.UserID, d)

	if !in.Authenticated {
		return Result{State: StateAwaitingAuth, Draft: &d}, nil
	}

	return Result{State: StatePaymentHandoff, Draft: &d}, nil
}

// Resume consumes a previously persisted draft after the interruption
// resolved (e.g. login completed) and hands it to payment. The draft is
// discarded on consumption.
func (s *Service) Resume(ctx context.Context, userID string) (Result, error) {
	const op = "service.flow.Resume"

	d := s.drafts.Load(ctx, userID)
	if d == nil {
		return Result{State: StateSelecting}, fmt.Errorf("%s: %w", op, ErrNoDraft)
	}

	s.drafts.Clear(ctx, userID)

	return Result{State: StatePaymentHandoff, Draft: d}, nil
}

func (s *Service) compose(in CommitInput) domain.BookingDraft {
	base := s.pricing.Resolve(in.Selection.DurationHours, in.HourlyRate, in.Overrides)
	agg := s.pricing.Compute(in.Addons)

	var extras int64
	for _, e := range in.Extras {
		extras += e.Amount
	}

	start := slotStart(in.Selection)

	return domain.BookingDraft{
		SpaceID:        in.SpaceID,
		EventType:      in.EventType,
		StartAt:        start,
		EndAt:          start.Add(time.Duration(in.Selection.DurationHours * float64(time.Hour))),
		BaseAmount:     base,
		AddonsAmount:   agg.GrandTotal,
		TotalAmount:    base + agg.GrandTotal + extras,
		Guests:         in.Guests,
		SelectedAddons: in.Addons,
		SelectedExtras: in.Extras,
		Attachment:     in.Attachment,
		CreatedAt:      s.now(),
	}
}

// slotStart combines the validated date and time strings into an instant.
func slotStart(sel domain.TimeSlotSelection) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", sel.Date+" "+sel.Time, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
