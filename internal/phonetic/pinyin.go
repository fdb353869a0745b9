package phonetic

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

var toneArgs = func() pinyin.Args {
	a := pinyin.NewArgs()
	a.Style = pinyin.Tone
	return a
}()

// Pinyin transcribes text to tone-marked pinyin, one syllable per character,
// separated by spaces. Runs of non-Chinese characters are kept as they are.
func Pinyin(text string) string {
	var (
		out   []string
		run   []rune
		inHan bool
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		if inHan {
			for _, syllables := range pinyin.Pinyin(string(run), toneArgs) {
				if len(syllables) > 0 {
					out = append(out, syllables[0])
				}
			}
		} else if s := strings.TrimSpace(string(run)); s != "" {
			out = append(out, strings.Fields(s)...)
		}
		run = run[:0]
	}

	for _, r := range text {
		han := unicode.Is(unicode.Han, r)
		if han != inHan {
			flush()
			inHan = han
		}
		run = append(run, r)
	}
	flush()
	return strings.Join(out, " ")
}

// Initials and Finals are the drill lists of the pinyin chart.
var (
	Initials = []string{
		"b", "p", "m", "f", "d", "t", "n", "l", "g", "k", "h", "j", "q", "x",
		"zh", "ch", "sh", "r", "z", "c", "s", "y", "w",
	}
	Finals = []string{
		"a", "o", "e", "i", "u", "ü", "er", "ai", "ei", "ao", "ou", "an", "en", "ang", "eng", "ong",
		"ia", "ie", "iao", "iu", "ian", "in", "iang", "ing", "iong",
		"ua", "uo", "uai", "ui", "uan", "un", "uang", "ueng",
		"üe", "üan", "ün",
	}
)
