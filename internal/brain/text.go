package brain

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
)

// normalize lowercases text and folds typographic apostrophes so "can’t"
// and "can't" match the same keyword.
func normalize(text string) string {
	text = strings.ToLower(text)
	return strings.NewReplacer("’", "'", "‘", "'").Replace(text)
}

func tokenize(normalized string) []string {
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// matchKeywords returns the keywords present in the message. Single words
// must match a whole token; phrases match as substrings.
func matchKeywords(normalized string, tokens []string, keywords []string) []string {
	var hits []string
	for _, kw := range keywords {
		kw = normalize(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.ContainsAny(kw, " -") || !isWord(kw) {
			if strings.Contains(normalized, kw) {
				hits = append(hits, kw)
			}
			continue
		}
		for _, tok := range tokens {
			if tok == kw {
				hits = append(hits, kw)
				break
			}
		}
	}
	return hits
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' {
			return false
		}
	}
	return true
}

var patternCache sync.Map // string -> *regexp.Regexp, nil for invalid patterns

// compilePattern compiles a script trigger pattern case-insensitively.
// Invalid patterns are cached as nil and never match.
func compilePattern(pattern string) *regexp.Regexp {
	if cached, ok := patternCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)
		return re
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		patternCache.Store(pattern, (*regexp.Regexp)(nil))
		return nil
	}
	patternCache.Store(pattern, re)
	return re
}
