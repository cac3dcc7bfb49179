package game

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	maxGuessPoints = 100
	minGuessPoints = 5
)

// Award converts the time left on the turn into points: the full 100 for an
// instant guess, scaling down linearly, never below 5.
func Award(remaining, roundDuration time.Duration) int {
	if remaining < 0 {
		remaining = 0
	}
	ratio := 1.0
	if roundDuration > 0 {
		ratio = min(1, float64(remaining)/float64(roundDuration))
	}
	return max(minGuessPoints, int(math.Round(maxGuessPoints*ratio)))
}

// sameWord compares case-insensitively after trimming surrounding spaces.
// A Caser keeps state, so a fresh one is built per call.
func sameWord(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	return cases.Fold().String(a) == cases.Fold().String(b)
}
