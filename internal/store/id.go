package store

import "github.com/google/uuid"

// newRecordID assigns a record id at write time. UUIDv7 embeds a millisecond
// timestamp in the high bits, so ids are unique and sort lexicographically in
// creation order. Falls back to a random UUIDv4 in the unlikely case the
// entropy source fails.
func newRecordID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
