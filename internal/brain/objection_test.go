package brain_test

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ppvDecision(price int) *model.MediaDecision {
	return &model.MediaDecision{
		ShouldSend: true,
		Type:       model.MediaDecisionPPV,
		Media:      &model.MediaItem{ID: 77, Type: "video", PPVPrice: price},
	}
}

var _ = Describe("ObjectionHandler", func() {
	var (
		ctx        context.Context
		objections *mockObjectionStore
		resolver   *mockObjectionResolver
		handler    *brain.ObjectionHandler
		now        time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		objections = &mockObjectionStore{}
		resolver = &mockObjectionResolver{}
		now = time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
		handler = brain.NewObjectionHandler(objections, resolver, &fixedRand{ints: []int{1}}, func() time.Time { return now })
	})

	It("returns nil when there is no objection", func() {
		result, err := handler.Handle(ctx, brain.ObjectionInput{Message: "you look amazing", Language: "en"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeNil())
		Expect(resolver.callCount).To(BeZero())
	})

	It("discounts a pending PPV by 20% and answers with a canned phrase", func() {
		result, err := handler.Handle(ctx, brain.ObjectionInput{
			ConversationID: 5,
			MessageID:      6,
			Message:        "it's too expensive",
			Language:       "en",
			Decision:       ppvDecision(1000),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Handled()).To(BeTrue())
		Expect(result.Type).To(Equal(brain.ObjectionPrice))
		Expect(*result.OriginalPrice).To(Equal(1000))
		Expect(*result.DiscountedPrice).To(Equal(800))
		Expect(brain.DiscountPhrases("en")).To(ContainElement(result.Text))
		Expect(result.Text).To(Equal(brain.DiscountPhrases("en")[1]))

		Expect(objections.created).To(HaveLen(1))
		log := objections.created[0]
		Expect(log.ConversationID).To(Equal(int64(5)))
		Expect(log.MessageID).To(Equal(int64(6)))
		Expect(log.ObjectionType).To(Equal("price"))
		Expect(log.Pattern).NotTo(BeEmpty())
		Expect(*log.DiscountedPrice).To(Equal(800))
		Expect(log.CreatedAt).To(Equal(now))
		Expect(resolver.callCount).To(BeZero())
	})

	It("uses the pool of the resolved language", func() {
		result, err := handler.Handle(ctx, brain.ObjectionInput{
			Message:  "c'est trop cher",
			Language: "fr",
			Decision: ppvDecision(999),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(brain.DiscountPhrases("fr")).To(ContainElement(result.Text))
		Expect(*result.DiscountedPrice).To(Equal(799))
	})

	It("falls back to the English pool for other languages", func() {
		Expect(brain.DiscountPhrases("nl")).To(Equal(brain.DiscountPhrases("en")))
	})

	It("delegates a price objection without a PPV offer to the resolver", func() {
		resolver.resolveFn = func(_ context.Context, kind brain.ObjectionType, _, _ string) (string, error) {
			Expect(kind).To(Equal(brain.ObjectionPrice))
			return "offer something free first", nil
		}
		result, err := handler.Handle(ctx, brain.ObjectionInput{
			Message:  "too expensive for me",
			Language: "en",
			Decision: &model.MediaDecision{Type: model.MediaDecisionNone},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Handled()).To(BeFalse())
		Expect(result.Hint).To(Equal("offer something free first"))
		Expect(result.DiscountedPrice).To(BeNil())
		Expect(objections.created).To(BeEmpty())
	})

	It("delegates trust objections without a discount", func() {
		resolver.resolveFn = func(_ context.Context, kind brain.ObjectionType, _, _ string) (string, error) {
			Expect(kind).To(Equal(brain.ObjectionTrust))
			return "reassure", nil
		}
		result, err := handler.Handle(ctx, brain.ObjectionInput{
			Message:  "is this real or a bot",
			Language: "en",
			Decision: ppvDecision(1000),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Handled()).To(BeFalse())
		Expect(result.Hint).To(Equal("reassure"))
		Expect(resolver.callCount).To(Equal(1))
	})

	It("fails when the audit record cannot be written", func() {
		objections.createFn = func(context.Context, *model.ObjectionLog) error {
			return errors.New("insert failed")
		}
		_, err := handler.Handle(ctx, brain.ObjectionInput{
			Message:  "too expensive",
			Language: "en",
			Decision: ppvDecision(500),
		})
		Expect(err).To(MatchError(ContainSubstring("insert failed")))
	})
})

var _ = Describe("DiscountedPrice", func() {
	It("is floor(p*0.8), never above p and strictly below from 5 up", func() {
		for p := 0; p <= 5000; p++ {
			d := brain.DiscountedPrice(p)
			Expect(d).To(Equal(int(math.Floor(float64(p) * 0.8))))
			Expect(d).To(BeNumerically("<=", p))
			if p >= 5 {
				Expect(d).To(BeNumerically("<", p))
			}
		}
	})
})
