package domain

import "time"

// TicketKind identifies what a purchase is for. Raffle kinds additionally
// put the buyer into the matching raffle pool.
type TicketKind string

const (
	KindEntry  TicketKind = "entry"
	KindTattoo TicketKind = "tattoo"
	KindMerch  TicketKind = "merch"
)

// ParseTicketKind maps a wire value onto a known kind.
func ParseTicketKind(s string) (TicketKind, bool) {
	switch TicketKind(s) {
	case KindEntry, KindTattoo, KindMerch:
		return TicketKind(s), true
	}
	return "", false
}

// IsRaffle reports whether purchases of this kind create raffle entries.
func (k TicketKind) IsRaffle() bool {
	return k == KindTattoo || k == KindMerch
}

// Label is the display name recorded on sales.
func (k TicketKind) Label() string {
	switch k {
	case KindTattoo:
		return "Tattoo Raffle"
	case KindMerch:
		return "Merch Raffle"
	case KindEntry:
		return "Entry Ticket"
	}
	return ""
}

// Sale is one completed purchase. Sales are immutable once recorded and the
// log is append-only, in insertion order. Price covers the whole purchase,
// not a single unit.
type Sale struct {
	ID            string     `json:"id"`
	Kind          TicketKind `json:"kind"`
	Item          string     `json:"item"`
	Quantity      int        `json:"quantity"`
	Price         int        `json:"price"`
	PaymentMethod string     `json:"payment_method"`
	Timestamp     time.Time  `json:"timestamp"`
}

// RaffleEntry is one draw chance. A purchase of N raffle tickets creates N
// entries sharing the buyer's name and phone.
type RaffleEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Timestamp time.Time `json:"timestamp"`
}

// ScheduleEvent is one item on the event-night schedule. Date is an opaque
// display string, not parsed.
type ScheduleEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// RevenueSummary is the derived aggregate over the sales log. Total always
// equals the sum of the three components, and each component equals the sum
// of prices over sales of that kind.
type RevenueSummary struct {
	Total       int `json:"total"`
	TattooTotal int `json:"tattoo_total"`
	MerchTotal  int `json:"merch_total"`
	EntryTotal  int `json:"entry_total"`
}

// WinnerAnnouncement is the transient payload broadcast after a raffle draw.
// It is not part of the ledger state and is never replayed to new observers.
type WinnerAnnouncement struct {
	Kind   TicketKind  `json:"type"`
	Winner RaffleEntry `json:"winner"`
}
