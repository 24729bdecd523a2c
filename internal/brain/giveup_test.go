package brain_test

import (
	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("GiveUp", func() {
	var p *model.Personality

	BeforeEach(func() {
		p = &model.Personality{GiveUp: model.GiveUpSettings{
			Enabled:          true,
			MessageThreshold: 20,
			Action:           model.GiveUpActionStop,
		}}
	})

	It("stops on a non-paying fan over the threshold", func() {
		stop, reason := brain.GiveUp(p, &model.FanStats{TotalSpent: 0, TotalMessages: 25}, &fixedRand{})
		Expect(stop).To(BeTrue())
		Expect(reason).To(ContainSubstring("Non-paying fan"))
	})

	It("keeps answering fans who paid or are under the threshold", func() {
		stop, _ := brain.GiveUp(p, &model.FanStats{TotalSpent: 10, TotalMessages: 25}, &fixedRand{})
		Expect(stop).To(BeFalse())
		stop, _ = brain.GiveUp(p, &model.FanStats{TotalSpent: 0, TotalMessages: 19}, &fixedRand{})
		Expect(stop).To(BeFalse())
	})

	It("is inactive when disabled", func() {
		p.GiveUp.Enabled = false
		stop, _ := brain.GiveUp(p, &model.FanStats{TotalMessages: 100}, &fixedRand{})
		Expect(stop).To(BeFalse())
	})

	It("answers one message in five under the minimal action", func() {
		p.GiveUp.Action = model.GiveUpActionMinimal
		stats := &model.FanStats{TotalMessages: 30}

		stop, _ := brain.GiveUp(p, stats, &fixedRand{floats: []float64{0.1}})
		Expect(stop).To(BeFalse())

		stop, reason := brain.GiveUp(p, stats, &fixedRand{floats: []float64{0.2}})
		Expect(stop).To(BeTrue())
		Expect(reason).To(ContainSubstring("Non-paying fan"))
	})
})
