package mastery

import "time"

const (
	// MaxLevel is the top mastery level.
	MaxLevel = 5
	// MasteredStreak is the consecutive-correct run required, on top of MaxLevel, to mark an item mastered.
	MasteredStreak = 10
)

type tier struct {
	level       int
	minTotal    int
	minAccuracy int // percent
}

// tiers are checked from the highest level down.
var tiers = []tier{
	{5, 20, 95},
	{4, 11, 85},
	{3, 6, 70},
	{2, 3, 50},
	{1, 1, 0},
}

// Level is the highest tier whose minimum answer count and accuracy both hold, else 0.
func Level(correct, wrong int) int {
	total := correct + wrong
	if total <= 0 {
		return 0
	}
	for _, t := range tiers {
		// integer form of correct/total >= minAccuracy/100
		if total >= t.minTotal && correct*100 >= t.minAccuracy*total {
			return t.level
		}
	}
	return 0
}

// Counters is the accumulated answer history of one (user, item) pair.
type Counters struct {
	Correct     int
	Wrong       int
	Consecutive int
}

// State is the result of applying one answer.
type State struct {
	Counters
	Level         int
	IsMastered    bool
	NewlyMastered bool
	MasteredAt    *time.Time
}

// Apply folds one answer into c. A mastered item stays mastered and keeps
// its original masteredAt.
func Apply(c Counters, isCorrect, wasMastered bool, masteredAt *time.Time, now time.Time) State {
	if isCorrect {
		c.Correct++
		c.Consecutive++
	} else {
		c.Wrong++
		c.Consecutive = 0
	}

	s := State{
		Counters:   c,
		Level:      Level(c.Correct, c.Wrong),
		IsMastered: wasMastered,
		MasteredAt: masteredAt,
	}
	if !wasMastered && s.Level == MaxLevel && c.Consecutive >= MasteredStreak {
		s.IsMastered = true
		s.NewlyMastered = true
		if s.MasteredAt == nil {
			at := now
			s.MasteredAt = &at
		}
	}
	return s
}
