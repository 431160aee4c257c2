package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		prefix   string
	}{
		{"simple name", "fairness", "fairness-"},
		{"spaces and case", "Fairness Demo", "fairness-demo-"},
		{"punctuation collapses", "build  FIFO / v2", "build-fifo-v2-"},
		{"empty falls back", "", "run-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := GenerateRunID(tt.scenario)

			assert.Regexp(t, regexp.MustCompile("^"+regexp.QuoteMeta(tt.prefix)+"[0-9a-f]{8}$"), id)
		})
	}
}

func TestGenerateRunID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateRunID("fairness")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
