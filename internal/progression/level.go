package progression

// Source tags an experience award with the action that earned it.
type Source string

const (
	SourceAddWord        Source = "add_word"
	SourceReadAloud      Source = "read_aloud"
	SourceQuiz           Source = "quiz"
	SourceDeleteMastered Source = "delete_mastered"
)

// Fixed action rewards. Callers pick the amount, the engine only applies it.
const (
	ExpAddWord          = 10
	ExpReadAloud        = 5
	ExpMatchingCorrect  = 3
	ExpMatchingAllBonus = 10
	ExpListeningCorrect = 5
	ExpListeningStreak  = 5 // per completed run of three correct answers
	ExpSpellingCorrect  = 8
	ExpDeleteMastered   = 50
	StarsDeleteMastered = 2
)

// ExpForLevel is the total experience needed to reach level.
func ExpForLevel(level int) int {
	return level*100 + (level-1)*50
}

// LevelForExp is the largest level whose threshold exp reaches, never below 1.
func LevelForExp(exp int) int {
	return advance(1, exp)
}

// advance climbs from level while exp reaches the next threshold.
func advance(level, exp int) int {
	if level < 1 {
		level = 1
	}
	for exp >= ExpForLevel(level+1) {
		level++
	}
	return level
}
