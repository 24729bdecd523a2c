package brain_test

import (
	"context"
	"fmt"

	"github.com/Raphi52/OnlyVIP-sub000/common/llm"
	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("background fan tasks", func() {
	var (
		ctx      context.Context
		messages *mockMessageStore
		fans     *mockFanStore
		task     brain.FanTask
	)

	BeforeEach(func() {
		ctx = context.Background()
		messages = &mockMessageStore{messages: map[int64]model.Message{
			100: {ID: 100, Text: "I'm a nurse in Lyon and I have a dog called Max", FromFan: true},
			101: {ID: 101, Text: "ok i'll buy it", FromFan: true},
		}}
		fans = &mockFanStore{stats: &model.FanStats{FanID: 5, Username: "alex", TotalMessages: 12}}
		task = brain.FanTask{ConversationID: 1, MessageID: 100, FanID: 5, CreatorSlug: "lena"}
	})

	Describe("MemoryExtractor", func() {
		It("stores confident facts only", func() {
			client := &mockLLMClient{response: brain.MemoryResponse{Facts: []brain.MemoryFact{
				{Category: "work", Content: "Works as a nurse", Confidence: 0.9},
				{Category: "location", Content: "Lives in Lyon", Confidence: 0.8},
				{Category: "interest", Content: "Maybe likes cats", Confidence: 0.3},
			}}}
			memories := &mockFanMemoryStore{}
			extractor := brain.NewMemoryExtractor(client, messages, memories)

			stored, err := extractor.Extract(ctx, task)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(Equal(2))
			Expect(memories.created).To(HaveLen(2))
			Expect(memories.created[0].SourceMessageID).To(Equal(int64(100)))
			Expect(memories.created[0].FanID).To(Equal(int64(5)))
			Expect(client.lastReq.SchemaName).To(Equal("fan_memory_response"))
		})

		It("keeps at most five facts", func() {
			facts := make([]brain.MemoryFact, 8)
			for i := range facts {
				facts[i] = brain.MemoryFact{Category: "personal", Content: "fact", Confidence: 1}
			}
			memories := &mockFanMemoryStore{}
			extractor := brain.NewMemoryExtractor(&mockLLMClient{response: brain.MemoryResponse{Facts: facts}}, messages, memories)

			stored, err := extractor.Extract(ctx, task)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(Equal(5))
		})

		It("skips very short messages without calling the model", func() {
			messages.messages[100] = model.Message{ID: 100, Text: "ok"}
			client := &mockLLMClient{}
			extractor := brain.NewMemoryExtractor(client, messages, &mockFanMemoryStore{})

			stored, err := extractor.Extract(ctx, task)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeZero())
			Expect(client.callCount).To(BeZero())
		})

		It("does not retry non-retryable errors", func() {
			client := &mockLLMClient{chatFn: func(context.Context, llm.Request, any) (*llm.Response, error) {
				return nil, fmt.Errorf("calling model: %w", context.Canceled)
			}}
			extractor := brain.NewMemoryExtractor(client, messages, &mockFanMemoryStore{})

			_, err := extractor.Extract(ctx, task)
			Expect(err).To(HaveOccurred())
			Expect(client.callCount).To(Equal(1))
		})
	})

	Describe("NoteUpdater", func() {
		It("saves the merged note truncated to 500 characters", func() {
			long := make([]rune, 600)
			for i := range long {
				long[i] = 'a'
			}
			client := &mockLLMClient{response: brain.NoteResponse{Note: string(long)}}
			updater := brain.NewNoteUpdater(client, messages, fans)

			Expect(updater.Update(ctx, task)).To(Succeed())
			Expect(fans.notes).To(HaveLen(1))
			Expect([]rune(fans.notes[0])).To(HaveLen(500))
			Expect(client.lastReq.UserPrompt).To(ContainSubstring("(none)"))
			Expect(client.lastReq.UserPrompt).To(ContainSubstring("nurse in Lyon"))
		})

		It("skips the write when the note is unchanged", func() {
			fans.stats.PersonalNote = ptr("Nurse from Lyon")
			updater := brain.NewNoteUpdater(&mockLLMClient{response: brain.NoteResponse{Note: "Nurse from Lyon"}}, messages, fans)

			Expect(updater.Update(ctx, task)).To(Succeed())
			Expect(fans.notes).To(BeEmpty())
		})
	})

	Describe("Qualifier", func() {
		It("scores purchase intent and stores the stage", func() {
			task.MessageID = 101
			q := brain.NewQualifier(fans, messages, brain.NewIntentDetector(brain.DefaultIntents()))

			score, stage, err := q.Qualify(ctx, task)
			Expect(err).NotTo(HaveOccurred())
			// 12 messages -> 3, purchase intent -> 15
			Expect(score).To(Equal(18))
			Expect(stage).To(Equal(model.FanStageNew))
			Expect(fans.qualifyCallCount).To(Equal(1))
			Expect(fans.qualifiedScore).To(Equal(18))
		})

		DescribeTable("QualificationScore",
			func(stats model.FanStats, intent bool, want int) {
				Expect(brain.QualificationScore(stats, intent)).To(Equal(want))
			},
			Entry("new fan", model.FanStats{}, false, 0),
			Entry("spender", model.FanStats{TotalSpent: 600, PurchaseCount: 2, TotalMessages: 40}, false, 30+10+10),
			Entry("capped components", model.FanStats{TotalSpent: 10000, PurchaseCount: 10, TotalMessages: 400}, true, 100),
		)

		DescribeTable("StageForScore",
			func(score int, want string) {
				Expect(brain.StageForScore(score)).To(Equal(want))
			},
			Entry(nil, 0, model.FanStageNew),
			Entry(nil, 19, model.FanStageNew),
			Entry(nil, 20, model.FanStageEngaged),
			Entry(nil, 45, model.FanStageWarm),
			Entry(nil, 70, model.FanStageBuyer),
			Entry(nil, 90, model.FanStageWhale),
		)
	})
})
