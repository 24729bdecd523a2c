package brain_test

import (
	"context"
	"errors"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fanMsg(text string) model.Message {
	return model.Message{Text: text, FromFan: true}
}

var _ = Describe("Router", func() {
	var (
		ctx           context.Context
		conversations *mockConversationStore
		personalities *mockPersonalityStore
		selector      *mockSelector
		router        *brain.Router
		now           time.Time

		sweetEN, naughtyEN, sweetFR model.Personality
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
		sweetEN = model.Personality{ID: 1, CreatorSlug: "lena", Name: "Sweet Lena", Language: "en", Tone: brain.ToneSweet, IsActive: true}
		naughtyEN = model.Personality{ID: 2, CreatorSlug: "lena", Name: "Naughty Lena", Language: "en", Tone: brain.ToneNaughty, IsActive: true}
		sweetFR = model.Personality{ID: 3, CreatorSlug: "lena", Name: "Lena douce", Language: "fr", Tone: brain.ToneSweet, IsActive: true}

		conversations = &mockConversationStore{}
		personalities = &mockPersonalityStore{personalities: []model.Personality{sweetEN, naughtyEN, sweetFR}}
		selector = &mockSelector{}
		router = brain.NewRouter(conversations, personalities, selector, func() time.Time { return now })
	})

	Describe("Resolve", func() {
		It("returns the assigned personality", func() {
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena", PersonalityID: ptr(int64(2))}
			p, err := router.Resolve(ctx, conv)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name).To(Equal("Naughty Lena"))
			Expect(selector.callCount).To(BeZero())
		})

		It("auto-assigns through the selector and records the switch", func() {
			selector.selectFn = func(context.Context, string, *model.Conversation) (*model.Personality, error) {
				return &sweetEN, nil
			}
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena"}

			p, err := router.Resolve(ctx, conv)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(int64(1)))
			Expect(*conv.PersonalityID).To(Equal(int64(1)))
			Expect(conversations.switches).To(HaveLen(1))
			Expect(conversations.switches[0].Reason).To(Equal(model.SwitchReasonAutoAssign))
			Expect(conversations.switches[0].SwitchedAt).To(Equal(now))
		})

		It("returns ErrNoPersonality when the creator has none", func() {
			_, err := router.Resolve(ctx, &model.Conversation{ID: 9, CreatorSlug: "lena"})
			Expect(errors.Is(err, brain.ErrNoPersonality)).To(BeTrue())
		})
	})

	Describe("Current", func() {
		It("reports the selector's choice without assigning it", func() {
			selector.selectFn = func(context.Context, string, *model.Conversation) (*model.Personality, error) {
				return &sweetFR, nil
			}
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena"}

			p, err := router.Current(ctx, conv)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(int64(3)))
			Expect(conv.PersonalityID).To(BeNil())
			Expect(conversations.switches).To(BeEmpty())
		})

		It("returns nil when the creator has none", func() {
			p, err := router.Current(ctx, &model.Conversation{ID: 9, CreatorSlug: "lena"})
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})
	})

	Describe("Refresh", func() {
		It("does nothing when both switches are off", func() {
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena", PersonalityID: ptr(int64(1))}
			p, err := router.Refresh(ctx, conv, &sweetEN, []model.Message{fanMsg("je suis très content et toi")})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(int64(1)))
			Expect(conversations.switches).To(BeEmpty())
		})

		It("switches to a personality matching the fan's tone", func() {
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena", PersonalityID: ptr(int64(1)), AutoToneSwitch: true}
			history := []model.Message{
				fanMsg("you make me so horny"),
				{Text: "oh really?"},
				fanMsg("i want something naughty 😈"),
			}

			p, err := router.Refresh(ctx, conv, &sweetEN, history)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(int64(2)))
			Expect(*conv.PersonalityID).To(Equal(int64(2)))

			Expect(conversations.switches).To(HaveLen(1))
			sw := conversations.switches[0]
			Expect(sw.Reason).To(Equal(model.SwitchReasonAutoTone))
			Expect(*sw.PreviousPersonalityName).To(Equal("Sweet Lena"))
			Expect(*sw.DetectedTone).To(Equal(brain.ToneNaughty))
		})

		It("switches to a personality speaking the fan's language", func() {
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena", PersonalityID: ptr(int64(1)), AutoLanguageSwitch: true}
			history := []model.Message{
				fanMsg("salut ça va"),
				fanMsg("je suis avec toi ce soir"),
			}

			p, err := router.Refresh(ctx, conv, &sweetEN, history)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(int64(3)))

			Expect(conversations.switches).To(HaveLen(1))
			sw := conversations.switches[0]
			Expect(sw.Reason).To(Equal(model.SwitchReasonAutoLanguage))
			Expect(*sw.DetectedLanguage).To(Equal("fr"))
			Expect(*sw.PreviousPersonalityName).To(Equal("Sweet Lena"))
		})

		It("keeps the personality when no candidate speaks the language", func() {
			conv := &model.Conversation{ID: 9, CreatorSlug: "lena", PersonalityID: ptr(int64(1)), AutoLanguageSwitch: true}
			history := []model.Message{fanMsg("hallo ich bin sehr müde und du")}

			p, err := router.Refresh(ctx, conv, &sweetEN, history)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(int64(1)))
			Expect(conversations.switches).To(BeEmpty())
		})
	})
})

var _ = Describe("language and tone detection", func() {
	It("detects the language from the last three fan messages", func() {
		Expect(brain.DetectLanguage([]string{"hola", "quiero verte", "eres muy linda"})).To(Equal("es"))
		Expect(brain.DetectLanguage([]string{"what are you doing", "i want you"})).To(Equal("en"))
	})

	It("needs at least two stopword hits", func() {
		Expect(brain.DetectLanguage([]string{"ok", "lol"})).To(BeEmpty())
	})

	It("ignores messages older than the last three", func() {
		msgs := []string{"je suis là", "c'est moi", "ok", "hola quiero", "eres muy", "sí"}
		Expect(brain.DetectLanguage(msgs)).To(Equal("es"))
	})

	It("detects a dominant tone", func() {
		Expect(brain.DetectTone([]string{"haha you're funny", "lol"})).To(Equal(brain.TonePlayful))
		Expect(brain.DetectTone([]string{"ok"})).To(BeEmpty())
	})
})
