package brain_test

import (
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseVariables", func() {
	// Saturday evening
	now := time.Date(2026, 3, 7, 19, 30, 0, 0, time.UTC)

	It("returns templates without tokens unchanged", func() {
		t := "Hey you, what are you up to?"
		Expect(brain.ParseVariables(t, brain.VariableContext{Now: now})).To(Equal(t))
	})

	It("substitutes fan, creator and pricing values", func() {
		out := brain.ParseVariables(
			"{{fanName}}, {{creatorName}} has something for {{ppvPrice}} credits (you have {{credits}})",
			brain.VariableContext{
				FanName:     ptr("Alex"),
				CreatorName: ptr("Lena"),
				PPVPrice:    ptr(1200),
				Credits:     ptr(300),
				Now:         now,
			})
		Expect(out).To(Equal("Alex, Lena has something for 1200 credits (you have 300)"))
	})

	It("leaves fan and pricing tokens unexpanded when no value is known", func() {
		out := brain.ParseVariables("Hi {{fanName}}, only {{ppvPrice}}", brain.VariableContext{Now: now})
		Expect(out).To(Equal("Hi {{fanName}}, only {{ppvPrice}}"))
	})

	It("always resolves temporal tokens", func() {
		out := brain.ParseVariables("{{greeting}}! Happy {{dayOfWeek}} {{timeOfDay}}", brain.VariableContext{Now: now})
		Expect(out).To(Equal("Good evening! Happy Saturday evening"))
	})

	It("computes days since join and last activity", func() {
		joined := now.Add(-10 * 24 * time.Hour)
		active := now.Add(-3 * time.Hour)
		out := brain.ParseVariables("{{daysSinceJoin}} days, seen {{lastActive}}", brain.VariableContext{
			JoinedAt:     &joined,
			LastActiveAt: &active,
			Now:          now,
		})
		Expect(out).To(Equal("10 days, seen 3 hours ago"))
	})

	It("draws flourishes from the known sets", func() {
		for i := 0; i < 20; i++ {
			out := brain.ParseVariables("{{randomEmoji}}", brain.VariableContext{Now: now})
			Expect(brain.RandomEmojis).To(ContainElement(out))

			out = brain.ParseVariables("{{petName}}", brain.VariableContext{Now: now, Rand: &fixedRand{ints: []int{i}}})
			Expect(brain.PetNames).To(ContainElement(out))
		}
	})

	It("keeps unknown tokens", func() {
		Expect(brain.ParseVariables("{{mystery}}", brain.VariableContext{Now: now})).To(Equal("{{mystery}}"))
	})
})
