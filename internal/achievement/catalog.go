package achievement

import "strconv"

// Achievement is a catalog entry. Unlock state lives in the store only.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

const (
	FirstWord        = "first_word"
	Words50          = "words_50"
	Consecutive7Days = "consecutive_7_days"
	PerfectMastery   = "perfect_mastery"
	Mastered10       = "mastered_10"
	Mastered50       = "mastered_50"
	Games10          = "games_10"
	Games100         = "games_100"
	PerfectQuiz      = "perfect_quiz"
	SpeedStar        = "speed_star"
)

var catalog = []Achievement{
	{FirstWord, "初出茅庐", "添加第一个生词", "🌱"},
	{Words50, "词汇小达人", "生词本里有50个词", "📚"},
	{Consecutive7Days, "坚持不懈", "连续学习7天", "🔥"},
	{"level_5", "小有所成", "达到5级", "⭐"},
	{"level_10", "学习之星", "达到10级", "🌟"},
	{"level_20", "学霸", "达到20级", "👑"},
	{PerfectMastery, "完美掌握", "一个词的掌握度达到5级", "💎"},
	{Mastered10, "融会贯通", "掌握10个词", "🏅"},
	{Mastered50, "博学多才", "掌握50个词", "🏆"},
	{Games10, "游戏玩家", "完成10局游戏", "🎮"},
	{Games100, "游戏大师", "完成100局游戏", "🕹️"},
	{PerfectQuiz, "全对达人", "一局至少5题全部答对", "💯"},
	{SpeedStar, "速度之星", "30秒内全对完成一局至少5题", "⚡"},
}

var byID = func() map[string]Achievement {
	m := make(map[string]Achievement, len(catalog))
	for _, a := range catalog {
		m[a.ID] = a
	}
	return m
}()

// Catalog returns a copy of the fixed catalog in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id string) (Achievement, bool) {
	a, ok := byID[id]
	return a, ok
}

// LevelID is the id of the level achievement for level, which may not exist in the catalog.
func LevelID(level int) string {
	return "level_" + strconv.Itoa(level)
}

// levelMilestones lists the catalog levels in ascending order.
var levelMilestones = []int{5, 10, 20}
