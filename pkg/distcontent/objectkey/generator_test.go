package objectkey

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTimestampGeneratorKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	g := NewTimestampGeneratorWithClock(func() time.Time { return fixed })

	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{
			name:     "pdf extension lowercased",
			fileName: "User_Manual.PDF",
			want:     fmt.Sprintf("%s-%d.pdf", id, fixed.Unix()),
		},
		{
			name:     "no extension",
			fileName: "firmware",
			want:     fmt.Sprintf("%s-%d", id, fixed.Unix()),
		},
		{
			name:     "multiple dots take last",
			fileName: "release.v2.tar.gz",
			want:     fmt.Sprintf("%s-%d.gz", id, fixed.Unix()),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Key(id, tt.fileName))
		})
	}
}

func TestTimestampGeneratorAvoidsCollisions(t *testing.T) {
	id := uuid.New()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	g := NewTimestampGeneratorWithClock(func() time.Time {
		now = now.Add(time.Second)
		return now
	})

	first := g.Key(id, "update.bin")
	second := g.Key(id, "update.bin")
	assert.NotEqual(t, first, second)
}
