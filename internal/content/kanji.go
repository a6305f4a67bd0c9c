package content

// Kanji holds one entry of the starter kanji set with its meaning and
// readings (on / kun, slash-separated).
type Kanji struct {
	Kanji   string `json:"kanji"`
	Meaning string `json:"meaning"`
	Reading string `json:"reading"`
}

// StarterKanji is the introductory kanji set.
var StarterKanji = []Kanji{
	{"日", "day, sun", "nichi, jitsu / hi, -bi, -ka"},
	{"一", "one", "ichi, itsu / hito-, hito.tsu"},
	{"国", "country", "koku / kuni"},
	{"人", "person", "jin, nin / hito"},
	{"年", "year", "nen / toshi"},
	{"大", "large, big", "dai, tai / oo-"},
	{"十", "ten", "juu / tou, to"},
	{"二", "two", "ni, ji / futa, futa.tsu"},
	{"本", "book, present", "hon / moto"},
	{"中", "in, inside, middle", "chuu / naka"},
}
