package brain_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Raphi52/OnlyVIP-sub000/common/llm"
	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

func ptr[T any](v T) *T { return &v }

// fixedRand returns queued values, then repeats the last one.
type fixedRand struct {
	ints   []int
	floats []float64
}

func (r *fixedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}
	return v % n
}

func (r *fixedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}
	return v
}

type mockScriptStore struct {
	listCandidatesFn    func(ctx context.Context, q model.ScriptQuery) ([]model.Script, error)
	incrementUsageCalls []int64
	recordSaleCalls     []int64
	lastQuery           model.ScriptQuery
}

func (m *mockScriptStore) GetByID(context.Context, int64) (*model.Script, error) {
	return nil, store.ErrNotFound
}

func (m *mockScriptStore) ListCandidates(ctx context.Context, q model.ScriptQuery) ([]model.Script, error) {
	m.lastQuery = q
	if m.listCandidatesFn != nil {
		return m.listCandidatesFn(ctx, q)
	}
	return nil, nil
}

func (m *mockScriptStore) IncrementUsage(_ context.Context, scriptID int64) error {
	m.incrementUsageCalls = append(m.incrementUsageCalls, scriptID)
	return nil
}

func (m *mockScriptStore) RecordSale(_ context.Context, scriptID int64, _ int) error {
	m.recordSaleCalls = append(m.recordSaleCalls, scriptID)
	return nil
}

type mockScriptUsageStore struct {
	findFn        func(ctx context.Context, conversationID int64, from, until time.Time) (*model.ScriptUsage, error)
	markFn        func(ctx context.Context, usageID int64, amount int, at time.Time) (bool, error)
	created       []model.ScriptUsage
	lastFrom      time.Time
	lastUntil     time.Time
	markCallCount int
}

func (m *mockScriptUsageStore) Create(_ context.Context, u *model.ScriptUsage) error {
	m.created = append(m.created, *u)
	return nil
}

func (m *mockScriptUsageStore) FindAttributable(ctx context.Context, conversationID int64, from, until time.Time) (*model.ScriptUsage, error) {
	m.lastFrom, m.lastUntil = from, until
	if m.findFn != nil {
		return m.findFn(ctx, conversationID, from, until)
	}
	return nil, store.ErrNotFound
}

func (m *mockScriptUsageStore) MarkAttributed(ctx context.Context, usageID int64, amount int, at time.Time) (bool, error) {
	m.markCallCount++
	if m.markFn != nil {
		return m.markFn(ctx, usageID, amount, at)
	}
	return true, nil
}

// mockStoreProvider implements brain.StoreProvider for testing.
type mockStoreProvider struct {
	scripts *mockScriptStore
	usages  *mockScriptUsageStore
}

func (m *mockStoreProvider) Scripts() store.ScriptStore           { return m.scripts }
func (m *mockStoreProvider) ScriptUsages() store.ScriptUsageStore { return m.usages }

// mockTxRunner runs fn directly against the provider.
type mockTxRunner struct {
	stores    brain.StoreProvider
	callCount int
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores brain.StoreProvider) error) error {
	m.callCount++
	return fn(m.stores)
}

type mockObjectionStore struct {
	createFn func(ctx context.Context, o *model.ObjectionLog) error
	created  []model.ObjectionLog
}

func (m *mockObjectionStore) Create(ctx context.Context, o *model.ObjectionLog) error {
	m.created = append(m.created, *o)
	if m.createFn != nil {
		return m.createFn(ctx, o)
	}
	return nil
}

type mockObjectionResolver struct {
	resolveFn func(ctx context.Context, kind brain.ObjectionType, message, language string) (string, error)
	callCount int
}

func (m *mockObjectionResolver) Resolve(ctx context.Context, kind brain.ObjectionType, message, language string) (string, error) {
	m.callCount++
	if m.resolveFn != nil {
		return m.resolveFn(ctx, kind, message, language)
	}
	return "", nil
}

type mockConversationStore struct {
	switches []model.PersonalitySwitch
}

func (m *mockConversationStore) GetByID(context.Context, int64) (*model.Conversation, error) {
	return nil, store.ErrNotFound
}

func (m *mockConversationStore) SwitchPersonality(_ context.Context, sw model.PersonalitySwitch) error {
	m.switches = append(m.switches, sw)
	return nil
}

func (m *mockConversationStore) TouchActivity(context.Context, int64, time.Time) error { return nil }

func (m *mockConversationStore) SetAIMode(context.Context, int64, model.AIMode) error { return nil }

func (m *mockConversationStore) AssignChatter(context.Context, int64) (*int64, error) { return nil, nil }

type mockPersonalityStore struct {
	personalities []model.Personality
}

func (m *mockPersonalityStore) GetByID(_ context.Context, id int64) (*model.Personality, error) {
	for i := range m.personalities {
		if m.personalities[i].ID == id {
			p := m.personalities[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockPersonalityStore) ListActiveByCreator(_ context.Context, creatorSlug string) ([]model.Personality, error) {
	var out []model.Personality
	for _, p := range m.personalities {
		if p.CreatorSlug == creatorSlug && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockSelector struct {
	selectFn  func(ctx context.Context, creatorSlug string, conv *model.Conversation) (*model.Personality, error)
	callCount int
}

func (m *mockSelector) Select(ctx context.Context, creatorSlug string, conv *model.Conversation) (*model.Personality, error) {
	m.callCount++
	if m.selectFn != nil {
		return m.selectFn(ctx, creatorSlug, conv)
	}
	return nil, nil
}

type mockMessageStore struct {
	messages map[int64]model.Message
}

func (m *mockMessageStore) GetByID(_ context.Context, id int64) (*model.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &msg, nil
}

func (m *mockMessageStore) Create(context.Context, *model.Message) error { return nil }

func (m *mockMessageStore) ListRecent(context.Context, int64, int) ([]model.Message, error) {
	return nil, nil
}

func (m *mockMessageStore) MarkFanMessagesRead(context.Context, int64) (int64, error) {
	return 0, nil
}

type mockFanStore struct {
	stats            *model.FanStats
	notes            []string
	qualifiedScore   int
	qualifiedStage   string
	qualifyCallCount int
}

func (m *mockFanStore) GetStats(context.Context, string, int64) (*model.FanStats, error) {
	if m.stats == nil {
		return nil, store.ErrNotFound
	}
	s := *m.stats
	return &s, nil
}

func (m *mockFanStore) UpdateNote(_ context.Context, _ string, _ int64, note string) error {
	m.notes = append(m.notes, note)
	return nil
}

func (m *mockFanStore) UpdateQualification(_ context.Context, _ string, _ int64, score int, stage string) error {
	m.qualifyCallCount++
	m.qualifiedScore, m.qualifiedStage = score, stage
	return nil
}

type mockFanMemoryStore struct {
	created []model.FanMemory
}

func (m *mockFanMemoryStore) Create(_ context.Context, mem *model.FanMemory) error {
	m.created = append(m.created, *mem)
	return nil
}

func (m *mockFanMemoryStore) ListByFan(context.Context, string, int64, int) ([]model.FanMemory, error) {
	return m.created, nil
}

// mockLLMClient implements llm.Client for testing. response is marshalled
// into the caller's result.
type mockLLMClient struct {
	chatFn    func(ctx context.Context, req llm.Request, result any) (*llm.Response, error)
	response  any
	callCount int
	lastReq   llm.Request
}

func (m *mockLLMClient) Chat(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	m.callCount++
	m.lastReq = req
	if m.chatFn != nil {
		return m.chatFn(ctx, req, result)
	}
	if m.response == nil {
		return nil, errors.New("mock not configured")
	}
	data, err := json.Marshal(m.response)
	if err != nil {
		return nil, err
	}
	return &llm.Response{}, json.Unmarshal(data, result)
}

func (m *mockLLMClient) Model() string {
	return "test-model"
}

// mockTextClient implements llm.TextClient for testing.
type mockTextClient struct {
	generateFn func(ctx context.Context, req llm.TextRequest) (*llm.TextResponse, error)
	callCount  int
	lastReq    llm.TextRequest
}

func (m *mockTextClient) Generate(ctx context.Context, req llm.TextRequest) (*llm.TextResponse, error) {
	m.callCount++
	m.lastReq = req
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return &llm.TextResponse{Content: "mock reply", FinishReason: "stop"}, nil
}

func (m *mockTextClient) Model() string {
	return "test-text-model"
}
