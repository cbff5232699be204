// Package objectkey generates storage keys for uploaded artifacts.
package objectkey

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampGenerator produces keys of the form "{id}-{unixts}.{ext}".
// The timestamp keeps repeated uploads for the same logical item from
// colliding in the bucket.
type TimestampGenerator struct {
	now func() time.Time
}

// NewTimestampGenerator creates a generator using the wall clock.
func NewTimestampGenerator() *TimestampGenerator {
	return &TimestampGenerator{now: time.Now}
}

// NewTimestampGeneratorWithClock creates a generator with an injected
// clock, for tests.
func NewTimestampGeneratorWithClock(now func() time.Time) *TimestampGenerator {
	return &TimestampGenerator{now: now}
}

// Key returns the storage key for the given item id and file name. The
// extension is taken from the file name, lowercased; a file with no
// extension yields a key with no extension.
func (g *TimestampGenerator) Key(id uuid.UUID, fileName string) string {
	ts := g.now().UTC().Unix()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ext == "" {
		return fmt.Sprintf("%s-%d", id, ts)
	}
	return fmt.Sprintf("%s-%d.%s", id, ts, ext)
}
