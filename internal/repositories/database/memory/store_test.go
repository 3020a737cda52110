package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/clearbooks/clearbooks_backend/internal/apperrors"
	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	portssvc "github.com/clearbooks/clearbooks_backend/internal/core/ports/services"
	"github.com/clearbooks/clearbooks_backend/internal/core/services"
	"github.com/clearbooks/clearbooks_backend/internal/dto"
	"github.com/clearbooks/clearbooks_backend/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LedgerFlowTestSuite exercises the full posting flow end to end over the
// in-memory store: services on top, no mocks underneath.
type LedgerFlowTestSuite struct {
	suite.Suite
	store     *memory.Store
	svc       *portssvc.ServiceContainer
	companyID string
	userID    string
	cash      domain.Account
	revenue   domain.Account
	expense   domain.Account
}

func (suite *LedgerFlowTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.userID = uuid.NewString()

	ctx := context.Background()
	repos := memory.NewRepositoryProvider(suite.store)
	container := services.NewServiceContainer(repos, nil)
	suite.svc = container

	company, err := container.Company.CreateCompany(ctx, dto.CreateCompanyRequest{
		Name:                "Flow Test Co",
		DefaultCurrencyCode: "USD",
	}, suite.userID)
	suite.Require().NoError(err)
	suite.companyID = company.CompanyID

	suite.cash = suite.mustCreateAccount("1000", "Cash", "ASSET")
	suite.revenue = suite.mustCreateAccount("4000", "Sales", "REVENUE")
	suite.expense = suite.mustCreateAccount("5000", "Rent", "EXPENSE")
}

func (suite *LedgerFlowTestSuite) mustCreateAccount(code, name, accountType string) domain.Account {
	account, err := suite.svc.Account.CreateAccount(context.Background(), suite.companyID, dto.CreateAccountRequest{
		Code: code, Name: name, AccountType: accountType, CurrencyCode: "USD",
	}, suite.userID)
	suite.Require().NoError(err)
	return *account
}

func (suite *LedgerFlowTestSuite) createDraft(amount string, debitAccount, creditAccount string, date time.Time) *domain.JournalEntry {
	entry, err := suite.svc.Entry.CreateEntry(context.Background(), suite.companyID, dto.CreateEntryRequest{
		EntryDate:    date,
		Description:  fmt.Sprintf("%s from %s to %s", amount, creditAccount, debitAccount),
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLine{
			{AccountID: debitAccount, Debit: decimal.RequireFromString(amount)},
			{AccountID: creditAccount, Credit: decimal.RequireFromString(amount)},
		},
	}, suite.userID)
	suite.Require().NoError(err)
	return entry
}

func (suite *LedgerFlowTestSuite) balance(accountID string) domain.Money {
	account, err := suite.svc.Account.GetAccountByID(context.Background(), suite.companyID, accountID)
	suite.Require().NoError(err)
	return account.Balance
}

func (suite *LedgerFlowTestSuite) TestPostCreatesLedgerLinesAndBalances() {
	ctx := context.Background()
	date := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	entry := suite.createDraft("100.00", suite.cash.AccountID, suite.revenue.AccountID, date)

	posted, ledgerLines, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Require().NotNil(posted.PostedAt)
	suite.Require().Len(ledgerLines, 2)

	hundred, _ := domain.NewMoneyFromString("100.00")
	suite.True(posted.TotalDebit.Equal(hundred))
	suite.True(posted.TotalCredit.Equal(hundred))

	// Both sides got sequence 1 on their fresh accounts and a running balance
	// equal to the first delta.
	for _, ll := range ledgerLines {
		suite.Equal(int64(1), ll.Sequence)
		suite.True(ll.RunningBalance.Equal(hundred))
	}

	suite.True(suite.balance(suite.cash.AccountID).Equal(hundred))
	suite.True(suite.balance(suite.revenue.AccountID).Equal(hundred))
}

func (suite *LedgerFlowTestSuite) TestRepostIsRejectedAndAppliesNothing() {
	ctx := context.Background()
	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	entry := suite.createDraft("40.00", suite.cash.AccountID, suite.revenue.AccountID, date)

	_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)
	suite.Require().NoError(err)

	_, _, err = suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)

	// Balance unchanged after the rejected retry.
	forty, _ := domain.NewMoneyFromString("40.00")
	suite.True(suite.balance(suite.cash.AccountID).Equal(forty))

	lines, err := suite.svc.Ledger.ListLedgerLines(ctx, suite.companyID, suite.cash.AccountID, dto.ListLedgerLinesParams{})
	suite.Require().NoError(err)
	suite.Len(lines.Lines, 1)
}

func (suite *LedgerFlowTestSuite) TestSequencesAndRunningBalancesChain() {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, amount := range []string{"10.00", "20.00", "30.00"} {
		entry := suite.createDraft(amount, suite.cash.AccountID, suite.revenue.AccountID, base.AddDate(0, 0, i))
		_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)
		suite.Require().NoError(err)
	}

	resp, err := suite.svc.Ledger.ListLedgerLines(ctx, suite.companyID, suite.cash.AccountID, dto.ListLedgerLinesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Lines, 3)

	expectedRunning := []string{"10", "30", "60"}
	for i, line := range resp.Lines {
		suite.Equal(int64(i+1), line.Sequence)
		expected, merr := domain.NewMoneyFromString(expectedRunning[i])
		suite.Require().NoError(merr)
		suite.True(line.RunningBalance.Equal(expected), "line %d running balance", i)
	}
}

func (suite *LedgerFlowTestSuite) TestVoidPostsMirrorAndPreservesHistory() {
	ctx := context.Background()
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	entry := suite.createDraft("80.00", suite.expense.AccountID, suite.cash.AccountID, date)

	// Seed cash so the credit has something to draw down.
	seed := suite.createDraft("200.00", suite.cash.AccountID, suite.revenue.AccountID, date)
	_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, seed.EntryID, suite.userID)
	suite.Require().NoError(err)
	_, _, err = suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)
	suite.Require().NoError(err)

	reversing, reversalLines, err := suite.svc.Entry.VoidEntry(ctx, suite.companyID, entry.EntryID, "wrong amount", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing.ReversedEntryID)
	suite.Equal(entry.EntryID, *reversing.ReversedEntryID)
	suite.Equal(domain.Posted, reversing.Status)
	suite.Require().Len(reversalLines, 2)

	// Original is Void, linked to its reversal, and its lines survive.
	original, err := suite.svc.Entry.GetEntryByID(ctx, suite.companyID, entry.EntryID)
	suite.Require().NoError(err)
	suite.Equal(domain.Void, original.Status)
	suite.Require().NotNil(original.ReversingEntryID)
	suite.Equal(reversing.EntryID, *original.ReversingEntryID)
	suite.Equal("wrong amount", original.VoidReason)
	suite.Require().NotNil(original.VoidedAt)
	suite.Len(original.Lines, 2)

	// The net balance effect is zero: cash is back to the seed amount and the
	// expense account back to zero.
	twoHundred, _ := domain.NewMoneyFromString("200.00")
	suite.True(suite.balance(suite.cash.AccountID).Equal(twoHundred))
	suite.True(suite.balance(suite.expense.AccountID).IsZero())

	// Ledger history holds all three cash lines (seed debit, expense credit,
	// reversal debit), nothing deleted.
	resp, err := suite.svc.Ledger.ListLedgerLines(ctx, suite.companyID, suite.cash.AccountID, dto.ListLedgerLinesParams{})
	suite.Require().NoError(err)
	suite.Len(resp.Lines, 3)
}

func (suite *LedgerFlowTestSuite) TestBackdatedPostClampsToDateOrder() {
	ctx := context.Background()
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan5 := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	first := suite.createDraft("100.00", suite.cash.AccountID, suite.revenue.AccountID, jan5)
	_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, first.EntryID, suite.userID)
	suite.Require().NoError(err)

	// An entry dated before the account's newest ledger line: its lines are
	// clamped to the later date so per-account date order never decreases.
	backdated := suite.createDraft("40.00", suite.cash.AccountID, suite.revenue.AccountID, jan1)
	_, ledgerLines, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, backdated.EntryID, suite.userID)
	suite.Require().NoError(err)
	for _, ll := range ledgerLines {
		suite.True(ll.TransactionDate.Equal(jan5), "line dated %s", ll.TransactionDate)
	}

	// The entry header keeps the caller's date; only ledger placement moves.
	stored, err := suite.svc.Entry.GetEntryByID(ctx, suite.companyID, backdated.EntryID)
	suite.Require().NoError(err)
	suite.True(stored.EntryDate.Equal(jan1))

	// The running-balance chain in (transactionDate, sequence) order is
	// intact and reconciliation agrees with the cached balance.
	derived, err := suite.svc.Ledger.Recompute(ctx, suite.companyID, suite.cash.AccountID)
	suite.Require().NoError(err)
	oneForty, _ := domain.NewMoneyFromString("140.00")
	suite.True(derived.Equal(oneForty))

	asOf, err := suite.svc.Ledger.BalanceAsOf(ctx, suite.companyID, suite.cash.AccountID, jan5)
	suite.Require().NoError(err)
	suite.True(asOf.Equal(oneForty))

	resp, err := suite.svc.Ledger.ListLedgerLines(ctx, suite.companyID, suite.cash.AccountID, dto.ListLedgerLinesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Lines, 2)
	suite.Equal(int64(1), resp.Lines[0].Sequence)
	suite.Equal(int64(2), resp.Lines[1].Sequence)
}

func (suite *LedgerFlowTestSuite) TestVoidOldEntryAfterLaterPostsKeepsChainClean() {
	ctx := context.Background()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	older := suite.createDraft("50.00", suite.cash.AccountID, suite.revenue.AccountID, march)
	_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, older.EntryID, suite.userID)
	suite.Require().NoError(err)

	newer := suite.createDraft("70.00", suite.cash.AccountID, suite.revenue.AccountID, april)
	_, _, err = suite.svc.Entry.PostEntry(ctx, suite.companyID, newer.EntryID, suite.userID)
	suite.Require().NoError(err)

	// Voiding the March entry after the April post: the reversal is dated at
	// the void, so its cash line lands after everything already posted.
	reversing, reversalLines, err := suite.svc.Entry.VoidEntry(ctx, suite.companyID, older.EntryID, "late correction", suite.userID)
	suite.Require().NoError(err)
	suite.True(reversing.EntryDate.After(april))
	for _, ll := range reversalLines {
		suite.False(ll.TransactionDate.Before(april))
	}

	derived, err := suite.svc.Ledger.Recompute(ctx, suite.companyID, suite.cash.AccountID)
	suite.Require().NoError(err)
	seventy, _ := domain.NewMoneyFromString("70.00")
	suite.True(derived.Equal(seventy))
	suite.True(suite.balance(suite.cash.AccountID).Equal(seventy))

	// Cash history reads back in non-decreasing date order with sequences
	// 1..3 and an unbroken running-balance chain.
	resp, err := suite.svc.Ledger.ListLedgerLines(ctx, suite.companyID, suite.cash.AccountID, dto.ListLedgerLinesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Lines, 3)
	for i := 1; i < len(resp.Lines); i++ {
		suite.False(resp.Lines[i].TransactionDate.Before(resp.Lines[i-1].TransactionDate))
		suite.Equal(resp.Lines[i-1].Sequence+1, resp.Lines[i].Sequence)
	}
}

func (suite *LedgerFlowTestSuite) TestVoidDraftRejected() {
	ctx := context.Background()
	entry := suite.createDraft("10.00", suite.cash.AccountID, suite.revenue.AccountID, time.Now().UTC())

	_, _, err := suite.svc.Entry.VoidEntry(ctx, suite.companyID, entry.EntryID, "not posted yet", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerFlowTestSuite) TestDoubleVoidRejected() {
	ctx := context.Background()
	date := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	entry := suite.createDraft("15.00", suite.cash.AccountID, suite.revenue.AccountID, date)
	_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)
	suite.Require().NoError(err)

	_, _, err = suite.svc.Entry.VoidEntry(ctx, suite.companyID, entry.EntryID, "first void", suite.userID)
	suite.Require().NoError(err)

	_, _, err = suite.svc.Entry.VoidEntry(ctx, suite.companyID, entry.EntryID, "second void", suite.userID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerFlowTestSuite) TestConcurrentPostsSerialize() {
	ctx := context.Background()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	const workers = 8
	entries := make([]*domain.JournalEntry, workers)
	for i := range entries {
		entries[i] = suite.createDraft("5.00", suite.cash.AccountID, suite.revenue.AccountID, base)
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = suite.svc.Entry.PostEntry(ctx, suite.companyID, entries[i].EntryID, suite.userID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		suite.Require().NoError(err, "post %d", i)
	}

	// All posts landed, sequences are gap-free, and the cached balance matches
	// the derived one.
	expected, _ := domain.NewMoneyFromString("40.00")
	suite.True(suite.balance(suite.cash.AccountID).Equal(expected))

	resp, err := suite.svc.Ledger.ListLedgerLines(ctx, suite.companyID, suite.cash.AccountID, dto.ListLedgerLinesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Lines, workers)
	for i, line := range resp.Lines {
		suite.Equal(int64(i+1), line.Sequence)
	}

	derived, err := suite.svc.Ledger.Recompute(ctx, suite.companyID, suite.cash.AccountID)
	suite.Require().NoError(err)
	suite.True(derived.Equal(expected))
}

func (suite *LedgerFlowTestSuite) TestConcurrentRepostOnlyOneWins() {
	ctx := context.Background()
	entry := suite.createDraft("9.00", suite.cash.AccountID, suite.revenue.AccountID, time.Now().UTC())

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = suite.svc.Entry.PostEntry(ctx, suite.companyID, entry.EntryID, suite.userID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrConflict)
		}
	}
	suite.Equal(1, succeeded)

	nine, _ := domain.NewMoneyFromString("9.00")
	suite.True(suite.balance(suite.cash.AccountID).Equal(nine))
}

func (suite *LedgerFlowTestSuite) TestBalanceAsOfCutoff() {
	ctx := context.Background()
	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	first := suite.createDraft("50.00", suite.cash.AccountID, suite.revenue.AccountID, march)
	second := suite.createDraft("70.00", suite.cash.AccountID, suite.revenue.AccountID, april)
	_, _, err := suite.svc.Entry.PostEntry(ctx, suite.companyID, first.EntryID, suite.userID)
	suite.Require().NoError(err)
	_, _, err = suite.svc.Entry.PostEntry(ctx, suite.companyID, second.EntryID, suite.userID)
	suite.Require().NoError(err)

	// Cutoff is inclusive: a cutoff on the first entry's date includes it and
	// excludes the later one.
	balance, err := suite.svc.Ledger.BalanceAsOf(ctx, suite.companyID, suite.cash.AccountID, march)
	suite.Require().NoError(err)
	fifty, _ := domain.NewMoneyFromString("50.00")
	suite.True(balance.Equal(fifty))

	balance, err = suite.svc.Ledger.BalanceAsOf(ctx, suite.companyID, suite.cash.AccountID, april)
	suite.Require().NoError(err)
	total, _ := domain.NewMoneyFromString("120.00")
	suite.True(balance.Equal(total))
}

func (suite *LedgerFlowTestSuite) TestEntryNumbersAreMonotonicPerCompany() {
	first := suite.createDraft("1.00", suite.cash.AccountID, suite.revenue.AccountID, time.Now().UTC())
	second := suite.createDraft("2.00", suite.cash.AccountID, suite.revenue.AccountID, time.Now().UTC())

	suite.Greater(second.EntryNumber, first.EntryNumber)
}

func (suite *LedgerFlowTestSuite) TestListEntriesPaginates() {
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		suite.createDraft("3.00", suite.cash.AccountID, suite.revenue.AccountID, time.Now().UTC())
	}

	page1, err := suite.svc.Entry.ListEntries(ctx, suite.companyID, dto.ListEntriesParams{Limit: 3})
	suite.Require().NoError(err)
	suite.Len(page1.Entries, 3)
	suite.Require().NotNil(page1.NextToken)

	page2, err := suite.svc.Entry.ListEntries(ctx, suite.companyID, dto.ListEntriesParams{Limit: 3, NextToken: page1.NextToken})
	suite.Require().NoError(err)
	suite.Len(page2.Entries, 2)
	suite.Nil(page2.NextToken)

	// Newest first, no overlap between pages.
	suite.Greater(page1.Entries[0].EntryNumber, page1.Entries[2].EntryNumber)
	suite.Greater(page1.Entries[2].EntryNumber, page2.Entries[0].EntryNumber)
}

func TestLedgerFlowTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerFlowTestSuite))
}

func TestStoreDeactivateAccountBlocksNewEntries(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	container := services.NewServiceContainer(repos, nil)
	userID := uuid.NewString()

	company, err := container.Company.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Closed Books Ltd", DefaultCurrencyCode: "USD"}, userID)
	require.NoError(t, err)

	cash, err := container.Account.CreateAccount(ctx, company.CompanyID, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: "ASSET", CurrencyCode: "USD"}, userID)
	require.NoError(t, err)
	revenue, err := container.Account.CreateAccount(ctx, company.CompanyID, dto.CreateAccountRequest{Code: "4000", Name: "Sales", AccountType: "REVENUE", CurrencyCode: "USD"}, userID)
	require.NoError(t, err)

	require.NoError(t, container.Account.DeactivateAccount(ctx, company.CompanyID, revenue.AccountID, userID))

	_, err = container.Entry.CreateEntry(ctx, company.CompanyID, dto.CreateEntryRequest{
		EntryDate:    time.Now().UTC(),
		Description:  "Sale after close",
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLine{
			{AccountID: cash.AccountID, Debit: decimal.NewFromInt(10)},
			{AccountID: revenue.AccountID, Credit: decimal.NewFromInt(10)},
		},
	}, userID)
	require.Error(t, err)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
