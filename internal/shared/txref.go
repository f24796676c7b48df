package shared

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// TransactionRef is the correlation key stamped on a ledger entry and
// every dependent record written alongside it. The store enforces no
// foreign keys between dependents and their parent, so referential
// integrity rides entirely on this value.
type TransactionRef string

// COGSPrefix marks the auto-generated cost-of-goods-sold companion entry.
const COGSPrefix = "COGS-"

var refPattern = regexp.MustCompile(`^TXN-\d{8}-\d{6}-\d{3}$`)

// ErrInvalidRef indicates a malformed transaction reference.
var ErrInvalidRef = errors.New("shared: invalid transaction reference")

// NewTransactionRef mints a reference of the form TXN-YYYYMMDD-HHMMSS-NNN.
func NewTransactionRef(now time.Time) TransactionRef {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	suffix := int64(0)
	if err == nil {
		suffix = n.Int64()
	}
	return TransactionRef(fmt.Sprintf("TXN-%s-%s-%03d", now.Format("20060102"), now.Format("150405"), suffix))
}

// ParseTransactionRef validates the wire shape of a reference.
func ParseTransactionRef(s string) (TransactionRef, error) {
	if !refPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, s)
	}
	return TransactionRef(s), nil
}

// COGSRef derives the correlation id of the auto-generated COGS entry.
func (r TransactionRef) COGSRef() TransactionRef {
	return TransactionRef(COGSPrefix + string(r))
}

// IsCOGS reports whether the reference belongs to an auto-generated entry.
func (r TransactionRef) IsCOGS() bool {
	return strings.HasPrefix(string(r), COGSPrefix)
}

// String implements fmt.Stringer.
func (r TransactionRef) String() string { return string(r) }
