package accounting_test

import (
	"testing"

	"github.com/clearbooks/clearbooks_backend/internal/core/domain"
	"github.com/clearbooks/clearbooks_backend/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) domain.Money {
	t.Helper()
	m, err := domain.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

func TestSignedDeltaConvention(t *testing.T) {
	tests := []struct {
		name   string
		debit  string
		credit string
		normal domain.NormalBalance
		want   string
	}{
		{"debit to debit-normal increases", "100.00", "0", domain.DebitNormal, "100.00"},
		{"credit to debit-normal decreases", "0", "100.00", domain.DebitNormal, "-100.00"},
		{"credit to credit-normal increases", "0", "100.00", domain.CreditNormal, "100.00"},
		{"debit to credit-normal decreases", "100.00", "0", domain.CreditNormal, "-100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedDelta(money(t, tt.debit), money(t, tt.credit), tt.normal)
			require.NoError(t, err)
			assert.True(t, got.Equal(money(t, tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestSignedDeltaUnknownSide(t *testing.T) {
	_, err := accounting.SignedDelta(money(t, "1"), money(t, "0"), domain.NormalBalance("SIDEWAYS"))
	assert.Error(t, err)
}
