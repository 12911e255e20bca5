package docid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu   sync.Mutex
	entropyOnce sync.Once
	entropy     *ulid.MonotonicEntropy
)

// next is safe for concurrent use; MonotonicEntropy itself is not.
func next() ulid.ULID {
	entropyOnce.Do(func() {
		source := rand.NewSource(time.Now().UnixNano())
		entropy = ulid.Monotonic(rand.New(source), 0)
	})
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// New returns a doc_* ULID string.
func New() string {
	return "doc_" + strings.ToLower(next().String())
}

// NewMessage returns a msg_* ULID string.
func NewMessage() string {
	return "msg_" + strings.ToLower(next().String())
}

// IsValid reports whether the string is a doc_* ULID.
func IsValid(value string) bool {
	if !strings.HasPrefix(value, "doc_") {
		return false
	}
	_, err := ulid.Parse(strings.TrimPrefix(value, "doc_"))
	return err == nil
}
