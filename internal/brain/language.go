package brain

const (
	LanguageEnglish    = "en"
	LanguageFrench     = "fr"
	LanguageSpanish    = "es"
	LanguageGerman     = "de"
	LanguageItalian    = "it"
	LanguagePortuguese = "pt"
)

const (
	languageSampleSize = 3
	minLanguageHits    = 2
)

// Ordered so ties resolve deterministically.
var languageStopwords = []struct {
	lang  string
	words map[string]struct{}
}{
	{LanguageEnglish, set("the", "you", "and", "is", "are", "what", "how", "i'm", "your", "my", "it's", "want", "with", "this", "that", "have")},
	{LanguageFrench, set("je", "tu", "le", "la", "les", "est", "et", "pas", "mais", "oui", "avec", "pour", "moi", "toi", "c'est", "bonjour", "salut", "ça", "très")},
	{LanguageSpanish, set("el", "los", "las", "es", "y", "pero", "sí", "con", "para", "yo", "tú", "qué", "hola", "muy", "eres", "estás", "quiero")},
	{LanguageGerman, set("ich", "du", "der", "die", "das", "ist", "und", "nicht", "aber", "ja", "mit", "für", "bist", "hallo", "sehr", "was", "wie")},
	{LanguageItalian, set("io", "il", "lo", "gli", "è", "e", "non", "ma", "con", "per", "sei", "ciao", "molto", "che", "sono", "voglio")},
	{LanguagePortuguese, set("eu", "você", "o", "os", "é", "não", "mas", "sim", "com", "para", "olá", "muito", "quero", "está", "obrigado", "tudo")},
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// DetectLanguage counts stopword hits over the fan's last three messages.
// It returns "" when no language reaches two hits.
func DetectLanguage(fanMessages []string) string {
	if len(fanMessages) > languageSampleSize {
		fanMessages = fanMessages[len(fanMessages)-languageSampleSize:]
	}

	counts := make([]int, len(languageStopwords))
	for _, msg := range fanMessages {
		for _, tok := range tokenize(normalize(msg)) {
			for i, l := range languageStopwords {
				if _, ok := l.words[tok]; ok {
					counts[i]++
				}
			}
		}
	}

	best, bestCount := "", 0
	for i, l := range languageStopwords {
		if counts[i] > bestCount {
			best, bestCount = l.lang, counts[i]
		}
	}
	if bestCount < minLanguageHits {
		return ""
	}
	return best
}

const (
	ToneSweet    = "sweet"
	TonePlayful  = "playful"
	ToneRomantic = "romantic"
	ToneNaughty  = "naughty"
)

const (
	toneSampleSize = 10
	minToneHits    = 2
)

var toneSignals = []struct {
	tone    string
	signals []string
}{
	{ToneNaughty, []string{"horny", "naughty", "dirty", "wet", "hard", "nude", "nudes", "explicit", "😈", "🍆", "💦"}},
	{ToneRomantic, []string{"love", "miss you", "heart", "forever", "dream", "soulmate", "❤️", "❤", "😍", "🥰"}},
	{TonePlayful, []string{"haha", "lol", "lmao", "tease", "joke", "funny", "game", "😂", "😜", "😏"}},
	{ToneSweet, []string{"sweet", "cute", "kind", "nice", "thank you", "thanks", "hug", "😊", "☺️"}},
}

// DetectTone infers the dominant tone of the recent messages.
func DetectTone(messages []string) string {
	if len(messages) > toneSampleSize {
		messages = messages[len(messages)-toneSampleSize:]
	}

	best, bestCount := "", 0
	for _, t := range toneSignals {
		count := 0
		for _, msg := range messages {
			normalized := normalize(msg)
			count += len(matchKeywords(normalized, tokenize(normalized), t.signals))
		}
		if count > bestCount {
			best, bestCount = t.tone, count
		}
	}
	if bestCount < minToneHits {
		return ""
	}
	return best
}
