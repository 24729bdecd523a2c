package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Raphi52/OnlyVIP-sub000/internal/service"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

var _ = Describe("CreditService", func() {
	var (
		ctx     context.Context
		credits *mockCreditStore
		svc     service.CreditService
	)

	BeforeEach(func() {
		ctx = context.Background()
		credits = &mockCreditStore{}
		svc = service.NewCreditService(credits)
	})

	Describe("HasCredits", func() {
		It("reports a positive balance", func() {
			credits.balanceFn = func(ctx context.Context, slug string) (int, error) { return 12, nil }

			got, err := svc.HasCredits(ctx, "lena")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(service.CreditBalance{HasCredits: true, Balance: 12}))
		})

		It("treats a zero balance as no credits", func() {
			got, err := svc.HasCredits(ctx, "lena")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.HasCredits).To(BeFalse())
		})

		It("treats a missing ledger as no credits", func() {
			credits.balanceFn = func(ctx context.Context, slug string) (int, error) { return 0, store.ErrNotFound }

			got, err := svc.HasCredits(ctx, "lena")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.HasCredits).To(BeFalse())
		})

		It("surfaces storage errors", func() {
			credits.balanceFn = func(ctx context.Context, slug string) (int, error) { return 0, errors.New("boom") }

			_, err := svc.HasCredits(ctx, "lena")
			Expect(err).To(MatchError(ContainSubstring("boom")))
		})
	})

	Describe("ChargeOneCredit", func() {
		It("debits exactly one credit with the message reference", func() {
			var charged int
			credits.debitFn = func(ctx context.Context, slug string, amount int, ref store.CreditRef) (int64, int, error) {
				charged = amount
				return 42, 9, nil
			}

			got, err := svc.ChargeOneCredit(ctx, "lena", service.ChargeRef{MessageID: 3, ConversationID: 4})
			Expect(err).NotTo(HaveOccurred())
			Expect(charged).To(Equal(1))
			Expect(got).To(Equal(service.ChargeResult{Charged: true, ChargedUserID: 42, NewBalance: 9}))
			Expect(credits.lastRef).To(Equal(store.CreditRef{Reason: "ai_message", MessageID: 3, ConversationID: 4}))
		})

		It("reports an empty balance in the result", func() {
			credits.debitFn = func(ctx context.Context, slug string, amount int, ref store.CreditRef) (int64, int, error) {
				return 0, 0, store.ErrInsufficientCredits
			}

			got, err := svc.ChargeOneCredit(ctx, "lena", service.ChargeRef{})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Charged).To(BeFalse())
			Expect(got.Error).To(Equal("insufficient credits"))
		})
	})
})
