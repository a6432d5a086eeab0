package lifecycle

import (
	"math"
	"strings"

	"github.com/juniperhq/chorequest/internal/model"
)

// Base rewards are keyed off the literal template title. Fragile if titles
// are renamed; DefaultReward is the single place to swap the mapping for a
// stable identifier later.
var baseRewards = map[string]int{
	"Brush Teeth":        5,
	"Make Bed":           5,
	"Take Out Trash":     5,
	"Feed The Pet":       5,
	"Wash Dishes":        10,
	"Clean Room":         10,
	"Walk The Dog":       10,
	"Water The Plants":   5,
	"Do Homework":        15,
	"Practice Reading":   15,
	"Practice Piano":     15,
	"Help With Laundry":  10,
	"Set The Table":      5,
	"Vacuum Living Room": 10,
}

const fallbackReward = 10

var difficultyMultiplier = map[model.Difficulty]float64{
	model.DifficultyEasy:   1,
	model.DifficultyMedium: 1.5,
	model.DifficultyHard:   2,
}

// DefaultReward computes the reward for a task with no explicit coin value:
// the base reward for the template title (fallback when unknown) scaled by
// the difficulty multiplier, rounded to the nearest coin.
func DefaultReward(title string, difficulty model.Difficulty) int {
	base, ok := baseRewards[strings.TrimSpace(title)]
	if !ok {
		base = fallbackReward
	}

	mult, ok := difficultyMultiplier[difficulty]
	if !ok {
		mult = 1
	}

	return int(math.Round(float64(base) * mult))
}
