package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewTransactionRefShape(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	ref := NewTransactionRef(now)
	require.Regexp(t, `^TXN-20250314-092653-\d{3}$`, ref.String())

	parsed, err := ParseTransactionRef(ref.String())
	require.NoError(t, err)
	require.Equal(t, ref, parsed)
}

func TestParseTransactionRefRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "TXN-1-2-3", "COGS-TXN-20250314-092653-001", "txn-20250314-092653-001"} {
		_, err := ParseTransactionRef(s)
		require.ErrorIs(t, err, ErrInvalidRef, "input %q", s)
	}
}

func TestCOGSRef(t *testing.T) {
	ref := TransactionRef("TXN-20250314-092653-042")
	require.Equal(t, "COGS-TXN-20250314-092653-042", ref.COGSRef().String())
	require.True(t, ref.COGSRef().IsCOGS())
	require.False(t, ref.IsCOGS())
}
