package accounting

import (
	"fmt"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
)

// SignedDelta converts a debit/credit pair into the signed change it applies
// to an account's running balance. This is used by both the posting engine and
// the balance aggregator so the sign convention lives in exactly one place.
//
// Debit-normal accounts (ASSET, EXPENSE): delta = debit - credit.
// Credit-normal accounts (LIABILITY, EQUITY, REVENUE): delta = credit - debit.
func SignedDelta(debit, credit domain.Money, normal domain.NormalBalance) (domain.Money, error) {
	switch normal {
	case domain.DebitNormal:
		return debit.Sub(credit), nil
	case domain.CreditNormal:
		return credit.Sub(debit), nil
	default:
		return domain.ZeroMoney(), fmt.Errorf("unknown normal balance side %q", normal)
	}
}

// LineDelta is SignedDelta applied to a journal entry line.
func LineDelta(line domain.JournalEntryLine, normal domain.NormalBalance) (domain.Money, error) {
	return SignedDelta(line.Debit, line.Credit, normal)
}

// LedgerLineDelta is SignedDelta applied to a materialized ledger line.
func LedgerLineDelta(line domain.LedgerLine, normal domain.NormalBalance) (domain.Money, error) {
	return SignedDelta(line.Debit, line.Credit, normal)
}
