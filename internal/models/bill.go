package models

import "time"

// BillType tags a BillEntry variant.
type BillType string

const (
	BillTransfer      BillType = "transfer"
	BillSelfFund      BillType = "self_fund"
	BillAdminAdd      BillType = "admin_add"
	BillAdminSubtract BillType = "admin_subtract"
	BillAdminSet      BillType = "admin_set"
	BillReset         BillType = "reset"
	BillKick          BillType = "kick"
)

// BillEntry is one immutable, timestamped audit record. Exactly the fields
// relevant to the variant are set; the rest are omitted on the wire.
type BillEntry struct {
	// Time is the event timestamp in Unix milliseconds.
	Time int64    `json:"time"`
	Type BillType `json:"type"`

	// transfer
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// self_fund
	User string `json:"user,omitempty"`

	// admin_* / kick target
	Target  string `json:"target,omitempty"`
	KickWho string `json:"kickWho,omitempty"`

	// transfer, self_fund and admin_* amounts. Pointers so a legitimate
	// zero (admin_set to 0) survives omitempty.
	Amount *int64 `json:"amount,omitempty"`
	Before *int64 `json:"before,omitempty"`
	After  *int64 `json:"after,omitempty"`
}

func now() int64 { return time.Now().UnixMilli() }

func amt(v int64) *int64 { return &v }

// NewTransferBill records a completed transfer between two distinct players.
func NewTransferBill(from, to string, amount int64) BillEntry {
	return BillEntry{Time: now(), Type: BillTransfer, From: from, To: to, Amount: amt(amount)}
}

// NewSelfFundBill records a self-funding top-up. The entry is filtered from
// the funding player's own view at snapshot time, never from the log itself.
func NewSelfFundBill(user string, amount int64) BillEntry {
	return BillEntry{Time: now(), Type: BillSelfFund, User: user, Amount: amt(amount)}
}

// NewAdminBill records an administrative balance adjustment, including the
// balance before and after the change.
func NewAdminBill(kind BillType, target string, amount, before, after int64) BillEntry {
	return BillEntry{
		Time:   now(),
		Type:   kind,
		Target: target,
		Amount: amt(amount),
		Before: amt(before),
		After:  amt(after),
	}
}

// NewResetBill records a room-wide balance reset.
func NewResetBill() BillEntry {
	return BillEntry{Time: now(), Type: BillReset}
}

// NewKickBill records the removal of a player by the administrator.
func NewKickBill(who string) BillEntry {
	return BillEntry{Time: now(), Type: BillKick, KickWho: who}
}

// VisibleTo reports whether the entry belongs in the bill snapshot sent to
// the given viewer. Self-funding entries are hidden from the very session
// that produced them while that session still carries the self-funding flag;
// every other viewer, the administrator included, sees them.
func (b BillEntry) VisibleTo(username string, selfFunding bool) bool {
	if b.Type == BillSelfFund && selfFunding && b.User == username {
		return false
	}
	return true
}
