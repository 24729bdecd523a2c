package brain

import (
	"regexp"
)

const (
	intentKeywordWeight  = 0.3
	intentPatternWeight  = 0.5
	intentPriorityWeight = 0.02

	// MinIntentConfidence is the score below which no intent is reported.
	MinIntentConfidence = 0.25
)

// IntentDefinition is one row of the intent table.
type IntentDefinition struct {
	Name     string
	Category string
	Keywords []string
	Patterns []*regexp.Regexp
	Priority int
}

// IntentMatch is the detector's verdict. A zero Confidence always comes with
// an empty Intent.
type IntentMatch struct {
	Intent          string
	Category        string
	Confidence      float64
	MatchedKeywords []string
	MatchedPattern  string
}

func (m IntentMatch) Detected() bool {
	return m.Intent != ""
}

type IntentDetector struct {
	table []IntentDefinition
}

// NewIntentDetector keeps the table order; it decides ties.
func NewIntentDetector(table []IntentDefinition) *IntentDetector {
	return &IntentDetector{table: table}
}

// Detect scores every definition and returns the best one, or an empty match
// when the best score is below MinIntentConfidence.
func (d *IntentDetector) Detect(message string) IntentMatch {
	normalized := normalize(message)
	tokens := tokenize(normalized)

	var best IntentMatch
	for _, def := range d.table {
		keywords := matchKeywords(normalized, tokens, def.Keywords)

		var pattern string
		for _, re := range def.Patterns {
			if re.MatchString(normalized) {
				pattern = re.String()
				break
			}
		}

		score := intentKeywordWeight*float64(len(keywords)) + intentPriorityWeight*float64(def.Priority)
		if pattern != "" {
			score += intentPatternWeight
		}
		score = clamp01(score)

		if score > best.Confidence {
			best = IntentMatch{
				Intent:          def.Name,
				Category:        def.Category,
				Confidence:      score,
				MatchedKeywords: keywords,
				MatchedPattern:  pattern,
			}
		}
	}

	if best.Confidence < MinIntentConfidence {
		return IntentMatch{}
	}
	return best
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

const (
	CategoryEngagement   = "engagement"
	CategorySales        = "sales"
	CategoryRelationship = "relationship"
	CategoryObjection    = "objection"
)

const (
	IntentGreeting         = "greeting"
	IntentCompliment       = "compliment"
	IntentFlirting         = "flirting"
	IntentContentRequest   = "content_request"
	IntentPriceQuestion    = "price_question"
	IntentPurchaseIntent   = "purchase_intent"
	IntentPersonalQuestion = "personal_question"
	IntentGoodbye          = "goodbye"
	IntentPriceObjection   = "price_objection"
	IntentTrustObjection   = "trust_objection"
	IntentTimingObjection  = "timing_objection"
	IntentNotInterested    = "not_interested"
)

// DefaultIntents is the product intent table used by the script matcher.
func DefaultIntents() []IntentDefinition {
	return []IntentDefinition{
		{
			Name:     IntentPurchaseIntent,
			Category: CategorySales,
			Keywords: []string{"buy", "unlock", "purchase", "send it", "i want it", "take it", "i'll pay", "worth it"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(i('ll| will)|let me) (buy|unlock|get|take) (it|that|this)\b`),
			},
			Priority: 9,
		},
		{
			Name:     IntentContentRequest,
			Category: CategorySales + ".content",
			Keywords: []string{"pics", "pic", "photo", "photos", "video", "videos", "nudes", "show me", "see more", "content"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(send|show) (me )?(a |some |more )?(pics?|photos?|videos?|something)\b`),
				regexp.MustCompile(`\bcan i see\b`),
			},
			Priority: 8,
		},
		{
			Name:     IntentPriceQuestion,
			Category: CategorySales + ".pricing",
			Keywords: []string{"price", "cost", "how much", "credits", "pay"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\bhow much (is|are|for|does)\b`),
			},
			Priority: 7,
		},
		{
			Name:     IntentFlirting,
			Category: CategoryRelationship + ".flirt",
			Keywords: []string{"sexy", "hot", "naughty", "kiss", "cuddle", "thinking of you", "want you", "miss you"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(i|i've been) (want|need|miss|crave)s? you\b`),
			},
			Priority: 6,
		},
		{
			Name:     IntentCompliment,
			Category: CategoryRelationship + ".compliment",
			Keywords: []string{"beautiful", "gorgeous", "pretty", "cute", "stunning", "amazing", "perfect"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\byou('re| are) (so |really |very )?(beautiful|gorgeous|pretty|cute|stunning|amazing|perfect)\b`),
			},
			Priority: 5,
		},
		{
			Name:     IntentPersonalQuestion,
			Category: CategoryRelationship + ".personal",
			Keywords: []string{"where are you from", "how old", "your name", "what do you do", "tell me about you"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(are|do) you (single|live|like|have)\b`),
			},
			Priority: 4,
		},
		{
			Name:     IntentGreeting,
			Category: CategoryEngagement + ".greeting",
			Keywords: []string{"hi", "hey", "hello", "heyy", "hola", "bonjour", "salut", "good morning", "good evening", "what's up", "sup"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(hi+|hey+|hello+|yo)\b`),
			},
			Priority: 3,
		},
		{
			Name:     IntentGoodbye,
			Category: CategoryEngagement + ".goodbye",
			Keywords: []string{"bye", "goodnight", "good night", "see you", "gotta go", "talk later"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(gotta|have to|need to) (go|sleep|work)\b`),
			},
			Priority: 2,
		},
	}
}

// ObjectionIntents is the table used by the objection handler. Price comes
// first so it wins ties against the softer objections.
func ObjectionIntents() []IntentDefinition {
	return []IntentDefinition{
		{
			Name:     IntentPriceObjection,
			Category: CategoryObjection + ".price",
			Keywords: []string{
				"too expensive", "expensive", "can't afford", "cannot afford", "too much", "cheaper",
				"discount", "lower the price", "trop cher", "caro", "demasiado", "zu teuer", "muito caro",
			},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(too|so|really|kinda|bit) (expensive|pricey|much)\b`),
				regexp.MustCompile(`\b(can'?t|cannot|couldn'?t) (afford|pay)\b`),
				regexp.MustCompile(`\b(any|a|give me a|get a) (discount|deal|cheaper price)\b`),
			},
			Priority: 5,
		},
		{
			Name:     IntentTrustObjection,
			Category: CategoryObjection + ".trust",
			Keywords: []string{"scam", "fake", "bot", "is this real", "catfish", "prove it", "not real"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(are you|is this) (a )?(real|bot|fake|ai)\b`),
			},
			Priority: 4,
		},
		{
			Name:     IntentTimingObjection,
			Category: CategoryObjection + ".timing",
			Keywords: []string{"later", "next week", "payday", "not now", "tomorrow", "maybe later"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(when|after) i get paid\b`),
			},
			Priority: 3,
		},
		{
			Name:     IntentNotInterested,
			Category: CategoryObjection + ".not_interested",
			Keywords: []string{"not interested", "no thanks", "don't want", "pass", "nah"},
			Patterns: []*regexp.Regexp{
				regexp.MustCompile(`\b(i'?m|i am) (not|no longer) interested\b`),
			},
			Priority: 2,
		},
	}
}
