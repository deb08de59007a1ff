// Package inventory derives ticket-inventory state and sales deadlines from
// raw program records. The upstream source mixes typed fields with
// semi-structured free-text notes, so extraction is built as an ordered chain
// of tolerant extractors: structured fields outrank text-derived values, the
// first successful extractor wins, and parsing never fails — missing or
// malformed data degrades to zero values.
package inventory

import (
	"github.com/venuebook/bookgo/internal/domain"
)

// CTALabelFilled is the call-to-action label shown for sold-out shows.
const CTALabelFilled = "Filled"

// Parse normalizes a raw record into a TicketInventory.
//
// In live mode the attendees field is reinterpreted as ticket capacity (a
// deliberate field reuse by the data source) and the sold count comes from
// the note, unless authoritativeSoldByID carries a value for this record —
// the authoritative source always replaces the regex-derived count.
//
// In standard mode attendees genuinely means attendee count and capacity is
// extracted from the note.
func Parse(
	record domain.ProgramRecord,
	mode domain.ParseMode,
	authoritativeSoldByID map[string]int64,
) domain.TicketInventory {
	var capacity, sold int64

	switch mode {
	case domain.ModeLive:
		capacity = record.Attendees
		sold = soldFromNote(record.Note)
		if v, ok := authoritativeSoldByID[record.ID]; ok {
			sold = v
		}
	default:
		capacity = capacityFromNote(record.Note)
		sold = record.Attendees
	}

	available := capacity - sold
	if available < 0 {
		available = 0
	}

	return domain.TicketInventory{
		Capacity:    capacity,
		Sold:        sold,
		Available:   available,
		IsFilled:    capacity > 0 && sold >= capacity,
		TicketPrice: ticketPriceFromNote(record.Note),
	}
}

// CTALabel returns the purchase call-to-action label for an inventory state.
func CTALabel(inv domain.TicketInventory) string {
	if inv.IsFilled {
		return CTALabelFilled
	}
	return "Book Now"
}
