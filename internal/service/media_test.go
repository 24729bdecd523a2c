package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/service"
)

var _ = Describe("MediaEngine", func() {
	var (
		ctx     context.Context
		media   *mockMediaStore
		rnd     *fixedRand
		engine  service.MediaEngine
		photo   model.MediaItem
		freePic model.MediaItem
	)

	BeforeEach(func() {
		ctx = context.Background()
		rnd = &fixedRand{}
		photo = model.MediaItem{ID: 1, CreatorSlug: "lena", Type: "photo", PPVPrice: 20}
		freePic = model.MediaItem{ID: 2, CreatorSlug: "lena", Type: "photo", IsFree: true}
		media = &mockMediaStore{}
		media.listUnsentFn = func(ctx context.Context, slug string, conversationID int64) ([]model.MediaItem, error) {
			return []model.MediaItem{photo}, nil
		}
		engine = service.NewMediaEngine(media, brain.NewIntentDetector(brain.DefaultIntents()), rnd)
	})

	request := func(text string, settings model.MediaSettings) service.MediaRequest {
		return service.MediaRequest{CreatorSlug: "lena", ConversationID: 9, MessageText: text, Settings: settings}
	}

	It("sends nothing when the persona never sends media and the fan did not ask", func() {
		got, err := engine.Decide(ctx, request("hey you", model.MediaSettings{}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Type).To(Equal(model.MediaDecisionNone))
		Expect(got.ShouldSend).To(BeFalse())
		Expect(media.listUnsentCall).To(BeZero())
	})

	It("sends nothing when the frequency roll misses", func() {
		rnd.floats = []float64{0.5}

		got, err := engine.Decide(ctx, request("hey you", model.MediaSettings{Frequency: 0.3}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Type).To(Equal(model.MediaDecisionNone))
	})

	It("raises the chance when the fan asks for content", func() {
		media.listUnsentFn = func(ctx context.Context, slug string, conversationID int64) ([]model.MediaItem, error) {
			return []model.MediaItem{freePic}, nil
		}
		rnd.floats = []float64{0.4}

		got, err := engine.Decide(ctx, request("send me a pic", model.MediaSettings{}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ShouldSend).To(BeTrue())
		Expect(got.Type).To(Equal(model.MediaDecisionFree))
		Expect(got.Media.ID).To(Equal(int64(2)))
	})

	It("locks paid media when the ppv roll hits", func() {
		rnd.floats = []float64{0.1, 0.2}

		got, err := engine.Decide(ctx, request("hey you", model.MediaSettings{Frequency: 0.5, PPVRatio: 0.5}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.IsPPV()).To(BeTrue())
		Expect(got.Media.PPVPrice).To(Equal(20))
	})

	It("teases instead of selling when the fan did not ask", func() {
		rnd.floats = []float64{0.1, 0.2}
		rnd.ints = []int{0, 1}

		got, err := engine.Decide(ctx, request("hey you", model.MediaSettings{Frequency: 0.5, PPVRatio: 0.5, Teasing: true}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Type).To(Equal(model.MediaDecisionTease))
		Expect(got.ShouldSend).To(BeFalse())
		Expect(got.IsTease()).To(BeTrue())
	})

	It("sells directly when the fan asked even with teasing on", func() {
		rnd.floats = []float64{0.1, 0.2}

		got, err := engine.Decide(ctx, request("send me a pic", model.MediaSettings{Frequency: 0.5, PPVRatio: 0.5, Teasing: true}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Type).To(Equal(model.MediaDecisionPPV))
	})

	It("sends nothing when every item was already sent", func() {
		media.listUnsentFn = func(ctx context.Context, slug string, conversationID int64) ([]model.MediaItem, error) {
			return nil, nil
		}
		rnd.floats = []float64{0.1}

		got, err := engine.Decide(ctx, request("hey you", model.MediaSettings{Frequency: 1}))
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Type).To(Equal(model.MediaDecisionNone))
	})

	It("returns storage errors", func() {
		media.listUnsentFn = func(ctx context.Context, slug string, conversationID int64) ([]model.MediaItem, error) {
			return nil, errors.New("db down")
		}
		rnd.floats = []float64{0.1}

		_, err := engine.Decide(ctx, request("hey you", model.MediaSettings{Frequency: 1}))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("PersonalitySelector", func() {
	var (
		ctx           context.Context
		creators      *mockCreatorStore
		personalities *mockPersonalityStore
	)

	BeforeEach(func() {
		ctx = context.Background()
		creators = &mockCreatorStore{}
		personalities = &mockPersonalityStore{active: []model.Personality{
			{ID: 1, Name: "Sweet Lena"},
			{ID: 2, Name: "Naughty Lena", IsDefault: true},
			{ID: 3, Name: "Lena FR"},
		}}
	})

	It("prefers the creator's configured default", func() {
		creators.getBySlugFn = func(ctx context.Context, slug string) (*model.Creator, error) {
			return &model.Creator{Slug: slug, DefaultPersonalityID: ptr(int64(3))}, nil
		}

		p, err := service.NewPersonalitySelector(creators, personalities).Select(ctx, "lena", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ID).To(Equal(int64(3)))
	})

	It("falls back to the personality flagged as default", func() {
		p, err := service.NewPersonalitySelector(creators, personalities).Select(ctx, "lena", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ID).To(Equal(int64(2)))
	})

	It("falls back to the first active personality", func() {
		personalities.active[1].IsDefault = false

		p, err := service.NewPersonalitySelector(creators, personalities).Select(ctx, "lena", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ID).To(Equal(int64(1)))
	})

	It("returns nil when the creator has no active personality", func() {
		personalities.active = nil

		p, err := service.NewPersonalitySelector(creators, personalities).Select(ctx, "lena", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeNil())
	})
})

var _ = Describe("ObjectionResolver", func() {
	It("returns a hint for every objection kind", func() {
		resolver := service.NewObjectionResolver()
		for _, kind := range []brain.ObjectionType{brain.ObjectionPrice, brain.ObjectionTrust, brain.ObjectionTiming, brain.ObjectionNotInterested} {
			hint, err := resolver.Resolve(context.Background(), kind, "hmm", "en")
			Expect(err).NotTo(HaveOccurred())
			Expect(hint).NotTo(BeEmpty())
		}
	})
})
