package domain

import (
	"time"
)

// ParseMode selects how the overloaded attendees field on a ProgramRecord is
// interpreted: live shows reuse it as ticket capacity, standard programs as
// the actual attendee count. The upstream source distinguishes the two only
// by booking_type.
type ParseMode string

const (
	ModeLive     ParseMode = "live"
	ModeStandard ParseMode = "standard"
)

// ProgramRecord is a raw program/booking record as served by the upstream
// catalog. Note carries semi-structured free-text annotations (ticket counts,
// sold counts, sales deadlines) that the inventory parser extracts from.
type ProgramRecord struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	BookingType string     `json:"booking_type"`
	Attendees   int64      `json:"attendees"`
	Note        string     `json:"note"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      time.Time  `json:"ends_at"`
	HourlyRate  float64    `json:"hourly_rate"`
}

// Mode derives the parse mode from the record's booking type.
func (r ProgramRecord) Mode() ParseMode {
	if r.BookingType == "live" {
		return ModeLive
	}
	return ModeStandard
}

// TicketInventory is a derived view; it has no identity of its own and is
// recomputed whenever the backing record list is refetched.
type TicketInventory struct {
	Capacity    int64 `json:"capacity"`
	Sold        int64 `json:"sold"`
	Available   int64 `json:"available"`
	IsFilled    bool  `json:"is_filled"`
	TicketPrice int64 `json:"ticket_price"`
}

// SalesDeadline is the resolved purchase cut-off for a record. Instant may be
// nil when no deadline source resolved; a nil instant never passes.
type SalesDeadline struct {
	Instant *time.Time `json:"instant"`
	Passed  bool       `json:"passed"`
}

// ProgramView is the derived read model served to listing consumers.
type ProgramView struct {
	Record    ProgramRecord   `json:"record"`
	Inventory TicketInventory `json:"inventory"`
	Deadline  SalesDeadline   `json:"deadline"`
	CTALabel  string          `json:"cta_label"`
}

// TimeSlotSelection is the user's transient slot choice. Cleared on submit or
// on draft consumption.
type TimeSlotSelection struct {
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	DurationHours float64 `json:"duration_hours"`
}

// PriceOverrideTable holds per-space price overrides supplied by the catalog.
// Values are pointers so an explicit null in the source is distinguishable
// from an absent key; both are skipped during resolution.
type PriceOverrideTable struct {
	ByDurationKey map[string]*float64 `json:"by_duration_key"`
	ByHourKey     map[int]*float64    `json:"by_hour_key"`
}

// AddonSelection is one selected add-on, possibly with nested sub-items.
// A sub-item's amount uses only its own quantity, never the parent's.
type AddonSelection struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Quantity  int64            `json:"quantity"`
	UnitPrice int64            `json:"unit_price"`
	SubItems  []AddonSelection `json:"sub_items,omitempty"`
}

// LineItem is one itemized add-on charge.
type LineItem struct {
	Name      string `json:"name"`
	Category  string `json:"category"`
	Qty       int64  `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
	Amount    int64  `json:"amount"`
}

// ExtraCharge is a flat extra applied on top of base + add-ons.
type ExtraCharge struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// Attachment is an optional binary blob captured with the draft (e.g. a voice
// note). The durable store keeps the raw bytes or a URI reference; the
// page-scoped mirror keeps a base64 data-URI encoding.
type Attachment struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data,omitempty"`
	URI      string `json:"uri,omitempty"`
}

// BookingDraft is the composed, not-yet-submitted booking payload persisted
// so an authentication interruption does not lose the selection.
// Invariant: TotalAmount = BaseAmount + AddonsAmount + sum of extras.
type BookingDraft struct {
	SpaceID        string           `json:"space_id"`
	EventType      string           `json:"event_type"`
	StartAt        time.Time        `json:"start_at"`
	EndAt          time.Time        `json:"end_at"`
	BaseAmount     int64            `json:"base_amount"`
	AddonsAmount   int64            `json:"addons_amount"`
	TotalAmount    int64            `json:"total_amount"`
	Guests         int64            `json:"guests"`
	SelectedAddons []AddonSelection `json:"selected_addons"`
	SelectedExtras []ExtraCharge    `json:"selected_extras"`
	Attachment     *Attachment      `json:"attachment,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// CountdownSnapshot is the remaining-time state published by a countdown task.
// Started is terminal: once the target instant has passed the task keeps
// ticking but the snapshot stays collapsed to Started until teardown.
type CountdownSnapshot struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
	Started bool  `json:"started"`
}
