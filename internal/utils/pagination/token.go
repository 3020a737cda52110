package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded cursor token from a transaction date
// and a per-account sequence number. Used for keyset-paginated ledger reads.
func EncodeToken(transactionDate time.Time, sequence int64) string {
	tokenStr := fmt.Sprintf("%s|%d", transactionDate.Format(timeFormat), sequence)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a cursor token back into its transaction date and
// sequence number.
func DecodeToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	transactionDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	var sequence int64
	if _, err := fmt.Sscanf(parts[1], "%d", &sequence); err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (sequence parse): %w", err)
	}

	return transactionDate, sequence, nil
}

// EncodeEntryToken creates a cursor token for journal entry listings, keyed by
// entry number (unique and monotonic per company).
func EncodeEntryToken(entryNumber int64) string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d", entryNumber)))
}

// DecodeEntryToken decodes an entry listing cursor token.
func DecodeEntryToken(token string) (int64, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	var entryNumber int64
	if _, err := fmt.Sscanf(string(decodedBytes), "%d", &entryNumber); err != nil {
		return 0, fmt.Errorf("invalid pagination token format (entry number parse): %w", err)
	}
	return entryNumber, nil
}
