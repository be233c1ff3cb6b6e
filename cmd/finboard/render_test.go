package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"finboard/internal/journal"
)

func TestRenderJournal(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	entries := []journal.Entry{
		{Timestamp: at, Action: "create", Entity: "budget", EntityID: "3", Status: journal.StatusPending},
		{Timestamp: at, Action: "delete", Entity: "goal", EntityID: "1", Status: journal.StatusFailed},
	}

	out := renderJournal(entries, 5)
	assert.Contains(t, out, "2024-01-15 09:30:00")
	assert.Contains(t, out, "budget")
	assert.Contains(t, out, "2 of 5 entries")

	assert.Contains(t, renderJournal(nil, 0), "empty")
}
