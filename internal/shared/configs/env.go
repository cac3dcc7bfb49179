package configs

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr           string   `env:"ADDR" envDefault:":4000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	GinMode        string   `env:"GIN_MODE" envDefault:"release"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	// WordsFile replaces the embedded word bank when set.
	WordsFile string `env:"WORDS_FILE"`

	RoundDuration       time.Duration `env:"ROUND_DURATION" envDefault:"90s"`
	ChooseWordDuration  time.Duration `env:"CHOOSE_WORD_DURATION" envDefault:"15s"`
	TurnSummaryDuration time.Duration `env:"TURN_SUMMARY_DURATION" envDefault:"5s"`
	MaxRounds           int           `env:"MAX_ROUNDS" envDefault:"3"`
	WordChoices         int           `env:"WORD_CHOICES" envDefault:"3"`

	ChatRate   float64 `env:"CHAT_RATE" envDefault:"2"`
	ChatBurst  int     `env:"CHAT_BURST" envDefault:"5"`
	DrawRate   float64 `env:"DRAW_RATE" envDefault:"120"`
	DrawBurst  int     `env:"DRAW_BURST" envDefault:"240"`
	SendBuffer int     `env:"SEND_BUFFER" envDefault:"256"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.GinMode != "debug" && c.GinMode != "release" && c.GinMode != "test":
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	case c.RoundDuration <= 0:
		return fmt.Errorf("ROUND_DURATION must be positive, got %s", c.RoundDuration)
	case c.ChooseWordDuration < 0:
		return fmt.Errorf("CHOOSE_WORD_DURATION cannot be negative, got %s", c.ChooseWordDuration)
	case c.TurnSummaryDuration < 0:
		return fmt.Errorf("TURN_SUMMARY_DURATION cannot be negative, got %s", c.TurnSummaryDuration)
	case c.MaxRounds < 1:
		return fmt.Errorf("MAX_ROUNDS must be at least 1, got %d", c.MaxRounds)
	case c.WordChoices < 1:
		return fmt.Errorf("WORD_CHOICES must be at least 1, got %d", c.WordChoices)
	case c.ChatRate <= 0 || c.ChatBurst < 1:
		return fmt.Errorf("CHAT_RATE and CHAT_BURST must be positive")
	case c.DrawRate <= 0 || c.DrawBurst < 1:
		return fmt.Errorf("DRAW_RATE and DRAW_BURST must be positive")
	case c.SendBuffer < 1:
		return fmt.Errorf("SEND_BUFFER must be at least 1, got %d", c.SendBuffer)
	}
	return nil
}
