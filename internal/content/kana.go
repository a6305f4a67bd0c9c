// Package content holds the static reference datasets the application
// teaches: the basic kana syllabaries and a starter kanji set. The
// data is fixed at build time; achievement conditions use the set
// sizes as ground truth for "all basic kana" milestones.
package content

// Kana pairs a kana character with its romanized reading.
type Kana struct {
	Kana   string `json:"kana"`
	Romaji string `json:"romaji"`
}

// Hiragana is the basic hiragana syllabary (gojūon, 46 characters).
var Hiragana = []Kana{
	{"あ", "a"}, {"い", "i"}, {"う", "u"}, {"え", "e"}, {"お", "o"},
	{"か", "ka"}, {"き", "ki"}, {"く", "ku"}, {"け", "ke"}, {"こ", "ko"},
	{"さ", "sa"}, {"し", "shi"}, {"す", "su"}, {"せ", "se"}, {"そ", "so"},
	{"た", "ta"}, {"ち", "chi"}, {"つ", "tsu"}, {"て", "te"}, {"と", "to"},
	{"な", "na"}, {"に", "ni"}, {"ぬ", "nu"}, {"ね", "ne"}, {"の", "no"},
	{"は", "ha"}, {"ひ", "hi"}, {"ふ", "fu"}, {"へ", "he"}, {"ほ", "ho"},
	{"ま", "ma"}, {"み", "mi"}, {"む", "mu"}, {"め", "me"}, {"も", "mo"},
	{"や", "ya"}, {"ゆ", "yu"}, {"よ", "yo"},
	{"ら", "ra"}, {"り", "ri"}, {"る", "ru"}, {"れ", "re"}, {"ろ", "ro"},
	{"わ", "wa"}, {"を", "wo"}, {"ん", "n"},
}

// Katakana is the basic katakana syllabary (gojūon, 46 characters).
var Katakana = []Kana{
	{"ア", "a"}, {"イ", "i"}, {"ウ", "u"}, {"エ", "e"}, {"オ", "o"},
	{"カ", "ka"}, {"キ", "ki"}, {"ク", "ku"}, {"ケ", "ke"}, {"コ", "ko"},
	{"サ", "sa"}, {"シ", "shi"}, {"ス", "su"}, {"セ", "se"}, {"ソ", "so"},
	{"タ", "ta"}, {"チ", "chi"}, {"ツ", "tsu"}, {"テ", "te"}, {"ト", "to"},
	{"ナ", "na"}, {"ニ", "ni"}, {"ヌ", "nu"}, {"ネ", "ne"}, {"ノ", "no"},
	{"ハ", "ha"}, {"ヒ", "hi"}, {"フ", "fu"}, {"ヘ", "he"}, {"ホ", "ho"},
	{"マ", "ma"}, {"ミ", "mi"}, {"ム", "mu"}, {"メ", "me"}, {"モ", "mo"},
	{"ヤ", "ya"}, {"ユ", "yu"}, {"ヨ", "yo"},
	{"ラ", "ra"}, {"リ", "ri"}, {"ル", "ru"}, {"レ", "re"}, {"ロ", "ro"},
	{"ワ", "wa"}, {"ヲ", "wo"}, {"ン", "n"},
}
