package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/quote-compare/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	created := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)
	runs := []model.Run{
		{
			ID:            "0b5e7c1a-4f3d-4c6e-9a2b-000000000001",
			Status:        model.RunStatusComplete,
			DocumentCount: 3,
			CreatedAt:     created,
			UpdatedAt:     created.Add(2 * time.Second),
		},
	}

	var b strings.Builder
	formatRunsList(&b, runs)
	out := b.String()

	assert.Contains(t, out, "0b5e7c1a")
	assert.NotContains(t, out, "000000000001", "ids are truncated for display")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "2026-08-01 09:30")
	assert.Contains(t, out, "2s")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "0b5e7c1a", truncateID("0b5e7c1a-4f3d-4c6e-9a2b-000000000001"))
	assert.Equal(t, "short", truncateID("short"))
}
