package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.RoundDuration)
	assert.Equal(t, 15*time.Second, cfg.ChooseWordDuration)
	assert.Equal(t, 5*time.Second, cfg.TurnSummaryDuration)
	assert.Equal(t, 3, cfg.MaxRounds)
	assert.Equal(t, 3, cfg.WordChoices)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Empty(t, cfg.WordsFile)
}

func TestLoadFrom_Overrides(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFrom(map[string]string{
		"ADDR":            ":9000",
		"ALLOWED_ORIGINS": "https://a.example,https://b.example",
		"ROUND_DURATION":  "60s",
		"MAX_ROUNDS":      "5",
		"LOG_PRETTY":      "true",
	})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.RoundDuration)
	assert.Equal(t, 5, cfg.MaxRounds)
	assert.True(t, cfg.LogPretty)
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name string
		vars map[string]string
	}{
		{name: "unparsable duration", vars: map[string]string{"ROUND_DURATION": "soon"}},
		{name: "zero round duration", vars: map[string]string{"ROUND_DURATION": "0s"}},
		{name: "negative summary", vars: map[string]string{"TURN_SUMMARY_DURATION": "-1s"}},
		{name: "zero rounds", vars: map[string]string{"MAX_ROUNDS": "0"}},
		{name: "zero word choices", vars: map[string]string{"WORD_CHOICES": "0"}},
		{name: "zero chat burst", vars: map[string]string{"CHAT_BURST": "0"}},
		{name: "zero draw rate", vars: map[string]string{"DRAW_RATE": "0"}},
		{name: "zero send buffer", vars: map[string]string{"SEND_BUFFER": "0"}},
		{name: "unknown gin mode", vars: map[string]string{"GIN_MODE": "prod"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadFrom(tc.vars)
			assert.Error(t, err)
		})
	}
}
