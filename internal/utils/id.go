package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID builds a record id like "file-1771612345678-3f9a2c1d": a type prefix,
// a millisecond timestamp (keeps ids roughly sortable by creation) and a
// random suffix to disambiguate same-millisecond writes.
func NewID(prefix string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// NowISO returns the current UTC time in the wire timestamp format.
func NowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
