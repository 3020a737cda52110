package events

import (
	"context"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// EntryPosted is emitted after a journal entry's posting commit succeeds.
// Reversal is true when the entry compensates a voided entry.
type EntryPosted struct {
	EntryID     string       `json:"entryID"`
	CompanyID   string       `json:"companyID"`
	EntryNumber int64        `json:"entryNumber"`
	TotalDebit  domain.Money `json:"totalDebit"`
	TotalCredit domain.Money `json:"totalCredit"`
	Reversal    bool         `json:"reversal"`
	PostedAt    time.Time    `json:"postedAt"`
}

// Publisher delivers ledger events to downstream consumers. Publishing is
// best-effort and happens after commit: a failure is logged by the caller and
// never rolls back a posted entry.
type Publisher interface {
	PublishEntryPosted(ctx context.Context, event EntryPosted) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishEntryPosted(ctx context.Context, event EntryPosted) error {
	return nil
}
