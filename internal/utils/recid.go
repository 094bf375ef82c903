package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// RecordIDHookFunc defines the signature for the NewRecordID test hook.
// It returns an ID and a boolean indicating whether to override the default generation.
type RecordIDHookFunc func() (id string, override bool)

// NewRecordIDHook is a package-level variable that tests can set to override NewRecordID behavior.
var NewRecordIDHook RecordIDHookFunc

const (
	base36Alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	recordIDSuffix  = 9
	minRecordIDSize = 10
)

// NewRecordID generates a record identifier: the current Unix millisecond
// timestamp in decimal followed by a 9-character base-36 random suffix.
// The timestamp prefix keeps IDs roughly time-ordered; the suffix is not a
// collision-proof namespace under rapid concurrent creation. That limitation
// is inherited deliberately so the two storage backends stay byte-compatible
// with data written by earlier deployments.
func NewRecordID() string {
	if NewRecordIDHook != nil {
		if id, override := NewRecordIDHook(); override {
			return id
		}
	}

	buf := make([]byte, 0, 22)
	buf = strconv.AppendInt(buf, time.Now().UnixMilli(), 10)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < recordIDSuffix; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback to zero character if random fails
			buf = append(buf, base36Alphabet[0])
			continue
		}
		buf = append(buf, base36Alphabet[n.Int64()])
	}
	return string(buf)
}

// ValidRecordID reports whether s looks like an ID produced by NewRecordID:
// non-empty, ASCII digits and lowercase base-36 letters only.
func ValidRecordID(s string) bool {
	if len(s) < minRecordIDSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
