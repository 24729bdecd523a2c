package brain_test

import (
	"regexp"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("IntentDetector", func() {
	var detector *brain.IntentDetector

	BeforeEach(func() {
		detector = brain.NewIntentDetector(brain.DefaultIntents())
	})

	DescribeTable("detects the intent of common fan messages",
		func(message, intent string) {
			match := detector.Detect(message)
			Expect(match.Intent).To(Equal(intent))
			Expect(match.Confidence).To(BeNumerically(">=", brain.MinIntentConfidence))
			Expect(match.Confidence).To(BeNumerically("<=", 1))
		},
		Entry("greeting", "hey", brain.IntentGreeting),
		Entry("greeting with extra letters", "heyyy how are you", brain.IntentGreeting),
		Entry("content request", "can you send me some pics?", brain.IntentContentRequest),
		Entry("price question", "how much is the video", brain.IntentPriceQuestion),
		Entry("purchase intent", "ok i'll take it", brain.IntentPurchaseIntent),
		Entry("compliment", "you're so gorgeous", brain.IntentCompliment),
		Entry("goodbye", "gotta go, talk later", brain.IntentGoodbye),
	)

	It("returns no intent with zero confidence for unrelated text", func() {
		match := detector.Detect("the weather was rainy in the mountains")
		Expect(match.Detected()).To(BeFalse())
		Expect(match.Intent).To(BeEmpty())
		Expect(match.Confidence).To(BeZero())
	})

	It("matches single-word keywords on whole tokens only", func() {
		match := detector.Detect("this is history")
		Expect(match.Intent).NotTo(Equal(brain.IntentGreeting))
	})

	It("computes the weighted score", func() {
		d := brain.NewIntentDetector([]brain.IntentDefinition{
			{Name: "a", Category: "x", Keywords: []string{"alpha"}, Priority: 5},
		})
		match := d.Detect("alpha")
		Expect(match.Confidence).To(BeNumerically("~", 0.3+0.1, 1e-9))
		Expect(match.MatchedKeywords).To(ConsistOf("alpha"))
	})

	It("adds the pattern bonus and caps confidence at 1", func() {
		d := brain.NewIntentDetector([]brain.IntentDefinition{
			{
				Name:     "a",
				Keywords: []string{"alpha", "beta", "gamma"},
				Patterns: []*regexp.Regexp{regexp.MustCompile(`alpha beta`)},
				Priority: 10,
			},
		})
		match := d.Detect("alpha beta gamma")
		Expect(match.Confidence).To(Equal(1.0))
		Expect(match.MatchedPattern).To(Equal("alpha beta"))
	})

	It("counts priority even without keyword or pattern hits", func() {
		d := brain.NewIntentDetector([]brain.IntentDefinition{
			{Name: "urgent", Category: "x", Keywords: []string{"alpha"}, Priority: 13},
		})
		match := d.Detect("nothing in common")
		Expect(match.Intent).To(Equal("urgent"))
		Expect(match.Confidence).To(BeNumerically("~", 0.26, 1e-9))
		Expect(match.MatchedKeywords).To(BeEmpty())
	})

	It("breaks ties by table order", func() {
		d := brain.NewIntentDetector([]brain.IntentDefinition{
			{Name: "first", Keywords: []string{"same"}, Priority: 1},
			{Name: "second", Keywords: []string{"same"}, Priority: 1},
		})
		Expect(d.Detect("same").Intent).To(Equal("first"))
	})

	It("reports nothing when the best score is under the threshold", func() {
		d := brain.NewIntentDetector([]brain.IntentDefinition{
			{Name: "weak", Keywords: []string{"meh"}, Priority: -5},
		})
		match := d.Detect("meh")
		Expect(match.Detected()).To(BeFalse())
		Expect(match.Confidence).To(BeZero())
	})

	Describe("objection table", func() {
		var objections *brain.IntentDetector

		BeforeEach(func() {
			objections = brain.NewIntentDetector(brain.ObjectionIntents())
		})

		DescribeTable("classifies pushback",
			func(message, intent string) {
				Expect(objections.Detect(message).Intent).To(Equal(intent))
			},
			Entry("too expensive", "it's too expensive", brain.IntentPriceObjection),
			Entry("typographic apostrophe", "I can’t afford that", brain.IntentPriceObjection),
			Entry("french", "c'est trop cher", brain.IntentPriceObjection),
			Entry("trust", "are you a bot?", brain.IntentTrustObjection),
			Entry("timing", "maybe later when i get paid", brain.IntentTimingObjection),
			Entry("not interested", "i'm not interested", brain.IntentNotInterested),
		)
	})
})
