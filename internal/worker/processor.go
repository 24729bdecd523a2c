package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Raphi52/OnlyVIP-sub000/common/id"
	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
	"github.com/Raphi52/OnlyVIP-sub000/internal/brain"
	"github.com/Raphi52/OnlyVIP-sub000/internal/metrics"
	"github.com/Raphi52/OnlyVIP-sub000/internal/model"
	"github.com/Raphi52/OnlyVIP-sub000/internal/queue"
	"github.com/Raphi52/OnlyVIP-sub000/internal/service"
	"github.com/Raphi52/OnlyVIP-sub000/internal/store"
)

const (
	historyLimit     = 20
	memoryLimit      = 10
	enqueueTaskLimit = 2 * time.Second
	settleLimit      = 10 * time.Second
)

// Where the reply text came from, used for metrics and logs.
const (
	sourceObjection = "objection"
	sourceTease     = "tease"
	sourceScript    = "script"
	sourceGenerated = "generated"
)

type ProcessorConfig struct {
	BatchSize     int
	MaxAttempts   int
	RetryDelay    time.Duration
	SuggestionTTL time.Duration
}

// Deps are the collaborators of the queue processor.
type Deps struct {
	Queue         store.QueueStore
	Messages      store.MessageStore
	Conversations store.ConversationStore
	Creators      store.CreatorStore
	Fans          store.FanStore
	FanMemories   store.FanMemoryStore
	Suggestions   store.SuggestionStore

	Handoffs service.HandoffService
	Credits  service.CreditService
	Media    service.MediaEngine
	Notifier service.Notifier

	Router     PersonalityRouter
	Objections ObjectionHandler
	Matcher    ScriptMatcher
	Generator  ResponseGenerator
	Usage      UsageTracker

	Tasks   queue.Producer // optional
	Locker  ConversationLocker
	Pacer   *Pacer
	Rand    brain.Rand
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Processor drains the AI response queue. Entries of one batch run
// sequentially; the claim is the only step concurrent runs race on.
type Processor struct {
	Deps
	cfg ProcessorConfig
}

func NewProcessor(deps Deps, cfg ProcessorConfig) *Processor {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Rand == nil {
		deps.Rand = brain.NewRand()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Minute
	}
	if cfg.SuggestionTTL <= 0 {
		cfg.SuggestionTTL = 10 * time.Minute
	}
	return &Processor{Deps: deps, cfg: cfg}
}

// ProcessBatch handles up to BatchSize due entries, oldest schedule first.
func (p *Processor) ProcessBatch(ctx context.Context, now time.Time) (BatchResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ai.worker.processor"})

	entries, err := p.Queue.ListDue(ctx, now, p.cfg.BatchSize)
	if err != nil {
		return BatchResult{}, fmt.Errorf("listing due entries: %w", err)
	}
	p.Metrics.BatchPicked(len(entries))

	var result BatchResult
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		status, err := p.ProcessEntry(ctx, entry.ID)
		if err != nil {
			slog.ErrorContext(ctx, "queue entry processing error",
				"error", err,
				"queue_entry_id", entry.ID)
		}
		result.add(status)
	}

	if len(entries) > 0 {
		slog.InfoContext(ctx, "queue batch processed",
			"processed", result.Processed,
			"completed", result.Completed,
			"failed", result.Failed,
			"skipped", result.Skipped,
			"requeued", result.Requeued)
	}
	return result, nil
}

// ProcessEntry claims and runs one entry and returns the status it ended in.
// The status is empty when the entry was not claimable.
func (p *Processor) ProcessEntry(ctx context.Context, entryID int64) (model.QueueStatus, error) {
	start := p.Now()

	claimed, entry, err := p.Queue.Claim(ctx, entryID, start)
	if err != nil {
		return "", fmt.Errorf("claiming entry: %w", err)
	}
	if !claimed {
		slog.InfoContext(ctx, "queue entry not claimable, skipping", "queue_entry_id", entryID)
		return "", nil
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		QueueEntryID:   &entry.ID,
		ConversationID: &entry.ConversationID,
		MessageID:      &entry.MessageID,
		CreatorSlug:    &entry.CreatorSlug,
		Component:      "ai.worker.processor",
	})
	sc := logger.StartSpan(ctx, "worker.process_queue_entry",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.Int64("queue_entry_id", entry.ID),
			attribute.Int("attempt", entry.Attempts)))
	defer sc.End()
	ctx = sc.Context()

	release, ok, err := p.Locker.Acquire(ctx, entry.ConversationID)
	if err != nil {
		sc.RecordError(err)
		return p.retryOrFail(ctx, entry, fmt.Errorf("locking conversation: %w", err)), nil
	}
	if !ok {
		slog.InfoContext(ctx, "conversation busy, releasing claim")
		ctx, cancel := settle(ctx)
		defer cancel()
		if err := p.Queue.ReleaseClaim(ctx, entry.ID, start.Add(p.cfg.RetryDelay)); err != nil {
			return "", fmt.Errorf("releasing claim: %w", err)
		}
		return model.QueueStatusPending, nil
	}
	defer release()

	outcome, err := p.runSafe(ctx, entry)
	if err != nil {
		sc.RecordError(err)
		status := p.retryOrFail(ctx, entry, err)
		sc.SetAttributes(attribute.String("queue_status", string(status)))
		p.Metrics.EntryProcessed(string(status), p.Now().Sub(start))
		return status, nil
	}

	if err := p.finish(ctx, entry, outcome); err != nil {
		sc.RecordError(err)
		return "", err
	}
	sc.SetAttributes(attribute.String("queue_status", string(outcome.Status)))
	p.Metrics.EntryProcessed(string(outcome.Status), p.Now().Sub(start))
	return outcome.Status, nil
}

// EnqueueAndProcess is the manual path: enqueue the message (idempotent on
// message id) and process it right away.
func (p *Processor) EnqueueAndProcess(ctx context.Context, messageID, conversationID int64, creatorSlug string) (*model.QueueEntry, error) {
	now := p.Now()
	stored, created, err := p.Queue.Enqueue(ctx, &model.QueueEntry{
		ID:             id.New(),
		MessageID:      messageID,
		ConversationID: conversationID,
		CreatorSlug:    creatorSlug,
		ScheduledAt:    now,
		Status:         model.QueueStatusPending,
		MaxAttempts:    p.cfg.MaxAttempts,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("enqueueing message: %w", err)
	}
	if !created {
		slog.InfoContext(ctx, "message already queued", "queue_entry_id", stored.ID, "status", stored.Status)
	}

	if stored.Status == model.QueueStatusPending {
		if _, err := p.ProcessEntry(ctx, stored.ID); err != nil {
			return nil, err
		}
	}

	entry, err := p.Queue.GetByID(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading entry: %w", err)
	}
	return entry, nil
}

func (p *Processor) runSafe(ctx context.Context, entry *model.QueueEntry) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in queue entry processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.run(ctx, entry)
}

// settle detaches ctx from cancellation so a claimed entry always reaches its
// next state even when the caller hangs up.
func settle(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), settleLimit)
}

func (p *Processor) finish(ctx context.Context, entry *model.QueueEntry, outcome Outcome) error {
	ctx, cancel := settle(ctx)
	defer cancel()
	now := p.Now()

	switch outcome.Status {
	case model.QueueStatusCompleted:
		if err := p.Queue.Complete(ctx, entry.ID, outcome.Result, now); err != nil {
			return fmt.Errorf("completing entry: %w", err)
		}
	case model.QueueStatusSkipped:
		if err := p.Queue.Skip(ctx, entry.ID, outcome.Reason, now); err != nil {
			return fmt.Errorf("skipping entry: %w", err)
		}
	default:
		if err := p.Queue.Fail(ctx, entry.ID, outcome.Reason, now); err != nil {
			return fmt.Errorf("failing entry: %w", err)
		}
	}

	slog.InfoContext(ctx, "queue entry finished",
		"status", outcome.Status,
		"reason", outcome.Reason)

	if outcome.chargeCredit {
		charge, err := p.Credits.ChargeOneCredit(ctx, entry.CreatorSlug, service.ChargeRef{
			MessageID:      entry.MessageID,
			ConversationID: entry.ConversationID,
		})
		switch {
		case err != nil:
			slog.ErrorContext(ctx, "failed to charge AI credit", "error", err)
		case !charge.Charged:
			slog.WarnContext(ctx, "AI credit not charged", "reason", charge.Error)
		default:
			p.Metrics.CreditCharged()
			slog.DebugContext(ctx, "AI credit charged", "new_balance", charge.NewBalance)
		}
	}
	return nil
}

func (p *Processor) retryOrFail(ctx context.Context, entry *model.QueueEntry, cause error) model.QueueStatus {
	ctx, cancel := settle(ctx)
	defer cancel()
	now := p.Now()

	if entry.AttemptsRemaining() {
		slog.WarnContext(ctx, "queue entry failed, scheduling retry",
			"error", cause,
			"attempt", entry.Attempts,
			"max_attempts", entry.MaxAttempts)
		if err := p.Queue.Requeue(ctx, entry.ID, cause.Error(), now.Add(p.cfg.RetryDelay)); err != nil {
			slog.ErrorContext(ctx, "failed to requeue entry", "error", err)
		}
		return model.QueueStatusPending
	}

	slog.ErrorContext(ctx, "queue entry failed permanently",
		"error", cause,
		"attempts", entry.Attempts)
	if err := p.Queue.Fail(ctx, entry.ID, cause.Error(), now); err != nil {
		slog.ErrorContext(ctx, "failed to mark entry failed", "error", err)
	}
	return model.QueueStatusFailed
}

func (p *Processor) run(ctx context.Context, entry *model.QueueEntry) (Outcome, error) {
	msg, err := p.Messages.GetByID(ctx, entry.MessageID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading message %d: %w", entry.MessageID, err)
	}
	conv, err := p.Conversations.GetByID(ctx, entry.ConversationID)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading conversation: %w", err)
	}

	handoff, err := p.Handoffs.ShouldHandoff(ctx, conv.ID, msg.Text)
	if err != nil {
		return Outcome{}, fmt.Errorf("checking handoff: %w", err)
	}
	if handoff.ShouldHandoff {
		if _, err := p.Handoffs.CreateHandoff(ctx, conv.ID, msg.ID, handoff); err != nil {
			return Outcome{}, fmt.Errorf("creating handoff: %w", err)
		}
		return failed(ReasonHandoffPrefix + handoff.Trigger), nil
	}

	stats, err := p.Fans.GetStats(ctx, conv.CreatorSlug, conv.FanID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return Outcome{}, fmt.Errorf("loading fan stats: %w", err)
	}
	current, err := p.Router.Current(ctx, conv)
	if err != nil {
		return Outcome{}, err
	}
	if stop, reason := brain.GiveUp(current, stats, p.Rand); stop {
		return failed(reason), nil
	}

	creator, err := p.Creators.GetBySlug(ctx, conv.CreatorSlug)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading creator: %w", err)
	}
	if !creator.UsesCustomKey() {
		balance, err := p.Credits.HasCredits(ctx, creator.Slug)
		if err != nil {
			return Outcome{}, fmt.Errorf("checking credits: %w", err)
		}
		if !balance.HasCredits {
			return failed(ReasonInsufficientCredit), nil
		}
	}

	personality, err := p.Router.Resolve(ctx, conv)
	if err != nil {
		if errors.Is(err, brain.ErrNoPersonality) {
			return failed(ReasonNoPersonality), nil
		}
		return Outcome{}, err
	}

	if conv.AIMode == model.AIModeDisabled {
		return failed(ReasonAIDisabled), nil
	}

	history, err := p.Messages.ListRecent(ctx, conv.ID, historyLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading history: %w", err)
	}
	personality, err = p.Router.Refresh(ctx, conv, personality, history)
	if err != nil {
		return Outcome{}, err
	}
	language := replyLanguage(history, personality)

	decision, err := p.Media.Decide(ctx, service.MediaRequest{
		CreatorSlug:    creator.Slug,
		CreatorUserID:  creator.UserID,
		ConversationID: conv.ID,
		MessageText:    msg.Text,
		Settings:       personality.Media,
		Personality:    personality,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("deciding media: %w", err)
	}

	reply := replyPlan{decision: decision}

	objection, err := p.Objections.Handle(ctx, brain.ObjectionInput{
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		Message:        msg.Text,
		Language:       language,
		Decision:       &decision,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("handling objection: %w", err)
	}
	if objection != nil {
		p.Metrics.Objection(string(objection.Type))
	}

	switch {
	case objection.Handled():
		reply.text, reply.source = objection.Text, sourceObjection
		reply.discounted = objection.DiscountedPrice
	case decision.IsTease():
		reply.text, reply.source = *decision.TeaseText, sourceTease
	default:
		if err := p.scriptOrGenerate(ctx, &reply, scriptInput{
			msg: msg, conv: conv, creator: creator, personality: personality,
			stats: stats, history: history, language: language, objection: objection,
		}); err != nil {
			return Outcome{}, err
		}
	}

	if reply.text == "" {
		return skipped(ReasonNoResponse), nil
	}
	p.Metrics.ResponseSource(reply.source)

	p.enqueueBackground(ctx, conv, msg)

	result := reply.result()

	if conv.AIMode == model.AIModeAssisted {
		if err := p.suggest(ctx, entry, conv, personality, reply); err != nil {
			return Outcome{}, err
		}
		return completed(result, false), nil
	}

	if err := p.send(ctx, conv, creator, personality, msg, &reply); err != nil {
		return Outcome{}, err
	}
	return completed(result, !creator.UsesCustomKey()), nil
}

type scriptInput struct {
	msg         *model.Message
	conv        *model.Conversation
	creator     *model.Creator
	personality *model.Personality
	stats       *model.FanStats
	history     []model.Message
	language    string
	objection   *brain.ObjectionResult
}

// scriptOrGenerate sends a high-confidence script verbatim, otherwise asks
// the generator with the script as a hint.
func (p *Processor) scriptOrGenerate(ctx context.Context, reply *replyPlan, in scriptInput) error {
	mc := brain.MatchContext{
		Message:     in.msg.Text,
		CreatorSlug: in.creator.Slug,
		AgencyID:    in.creator.AgencyID,
		Language:    in.language,
		History:     in.history,
		Variables:   variableContext(in.creator, in.stats, p.Now(), p.Rand),
	}
	if in.stats != nil {
		mc.FanStage = in.stats.Stage
	}

	matched, err := p.Matcher.Match(ctx, mc)
	if err != nil {
		return fmt.Errorf("matching script: %w", err)
	}
	reply.script = matched

	var scriptRef string
	if matched != nil {
		p.Metrics.ScriptStrategy(string(matched.Strategy))
		if matched.UseVerbatim(in.language) {
			reply.text, reply.source = matched.Content, sourceScript
			return nil
		}
		scriptRef = matched.Reference()
	}

	input := brain.GenerateInput{
		Creator:         in.creator,
		Personality:     in.personality,
		History:         in.history,
		Media:           &reply.decision,
		ScriptReference: scriptRef,
		Language:        in.language,
		DeepCharacter:   true,
	}
	if in.objection != nil {
		input.ObjectionHint = in.objection.Hint
	}
	if in.stats != nil {
		input.FanName = in.stats.Name()
		input.PersonalNote = in.stats.PersonalNote
		input.IsAIOnlyFan = in.stats.IsAIOnly
	}
	if memories, err := p.FanMemories.ListByFan(ctx, in.conv.CreatorSlug, in.conv.FanID, memoryLimit); err != nil {
		slog.WarnContext(ctx, "failed to load fan memories", "error", err)
	} else {
		input.FanMemories = memories
	}

	text, err := p.Generator.Generate(ctx, input)
	if err != nil {
		return fmt.Errorf("generating response: %w", err)
	}
	reply.text, reply.source = text, sourceGenerated
	return nil
}

func (p *Processor) suggest(ctx context.Context, entry *model.QueueEntry, conv *model.Conversation, personality *model.Personality, reply replyPlan) error {
	now := p.Now()
	isPPV, price := reply.ppv()
	suggestion := &model.AISuggestion{
		ID:             id.New(),
		ConversationID: conv.ID,
		QueueEntryID:   entry.ID,
		MessageID:      entry.MessageID,
		Content:        reply.text,
		MediaID:        reply.mediaID(),
		IsPPV:          isPPV,
		PPVPrice:       price,
		PersonalityID:  &personality.ID,
		Status:         model.SuggestionStatusPending,
		ExpiresAt:      now.Add(p.cfg.SuggestionTTL),
		CreatedAt:      now,
	}
	if err := p.Suggestions.Create(ctx, suggestion); err != nil {
		return fmt.Errorf("creating suggestion: %w", err)
	}
	slog.InfoContext(ctx, "reply stored as suggestion for review",
		"suggestion_id", suggestion.ID,
		"expires_at", suggestion.ExpiresAt)
	return nil
}

// send paces, persists and broadcasts the reply. Failures after the message
// row exists are logged only so a retry never sends it twice.
func (p *Processor) send(ctx context.Context, conv *model.Conversation, creator *model.Creator, personality *model.Personality, inbound *model.Message, reply *replyPlan) error {
	if err := p.Pacer.Read(ctx); err != nil {
		return fmt.Errorf("read delay: %w", err)
	}
	read, err := p.Messages.MarkFanMessagesRead(ctx, conv.ID)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	if read > 0 {
		p.notify(ctx, "messages read", p.Notifier.MessagesRead(ctx, conv.ID, read))
	}

	if err := p.Pacer.Think(ctx); err != nil {
		return fmt.Errorf("think delay: %w", err)
	}
	p.notify(ctx, "typing", p.Notifier.Typing(ctx, conv.ID, creator.UserID, true))
	err = p.Pacer.Type(ctx, len([]rune(reply.text)))
	p.notify(ctx, "typing", p.Notifier.Typing(ctx, conv.ID, creator.UserID, false))
	if err != nil {
		return fmt.Errorf("typing delay: %w", err)
	}

	ctx, cancel := settle(ctx)
	defer cancel()

	now := p.Now()
	responseTime := max(int(now.Sub(inbound.CreatedAt).Seconds()), 0)
	isPPV, price := reply.ppv()
	out := &model.Message{
		ID:                  id.New(),
		ConversationID:      conv.ID,
		SenderID:            creator.UserID,
		ReceiverID:          conv.FanID,
		Text:                reply.text,
		IsPPV:               isPPV,
		PPVPrice:            price,
		IsAIGenerated:       true,
		AIPersonalityID:     &personality.ID,
		ResponseTimeSeconds: &responseTime,
		Media:               reply.attachments(),
		CreatedAt:           now,
	}
	if err := p.Messages.Create(ctx, out); err != nil {
		return fmt.Errorf("creating reply message: %w", err)
	}

	if err := p.Conversations.TouchActivity(ctx, conv.ID, now); err != nil {
		slog.WarnContext(ctx, "failed to bump conversation activity", "error", err)
	}
	p.notify(ctx, "message created", p.Notifier.MessageCreated(ctx, out))

	if reply.script != nil && (reply.source == sourceScript || reply.source == sourceGenerated) {
		if err := p.Usage.TrackUsage(ctx, reply.script, conv.ID, &out.ID, conv.CreatorSlug, &responseTime, now); err != nil {
			slog.WarnContext(ctx, "failed to track script usage", "error", err, "script_id", reply.script.Script.ID)
		}
	}

	slog.InfoContext(ctx, "reply sent",
		"reply_message_id", out.ID,
		"source", reply.source,
		"is_ppv", isPPV,
		"response_time_seconds", responseTime)
	return nil
}

func (p *Processor) notify(ctx context.Context, event string, err error) {
	if err != nil {
		slog.WarnContext(ctx, "realtime notification failed", "event", event, "error", err)
	}
}

// enqueueBackground hands memory, note and qualification updates to the task
// stream. Failures never affect the entry.
func (p *Processor) enqueueBackground(ctx context.Context, conv *model.Conversation, msg *model.Message) {
	if p.Tasks == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTaskLimit)
	defer cancel()

	var traceID *string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = logger.Ptr(sc.TraceID().String())
	}

	for _, taskType := range []queue.TaskType{queue.TaskTypeMemoryExtract, queue.TaskTypePersonalNote, queue.TaskTypeFanQualification} {
		err := p.Tasks.Enqueue(ctx, queue.Task{
			TaskType:       taskType,
			ConversationID: conv.ID,
			MessageID:      msg.ID,
			FanID:          conv.FanID,
			CreatorSlug:    conv.CreatorSlug,
			TraceID:        traceID,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to enqueue background task", "task_type", taskType, "error", err)
		}
	}
}

// replyPlan accumulates what the pipeline decided to send.
type replyPlan struct {
	text       string
	source     string
	decision   model.MediaDecision
	discounted *int
	script     *brain.MatchedScript
}

func (r replyPlan) ppv() (bool, *int) {
	if !r.decision.IsPPV() {
		return false, nil
	}
	if r.discounted != nil {
		return true, r.discounted
	}
	price := r.decision.Media.PPVPrice
	return true, &price
}

func (r replyPlan) mediaID() *int64 {
	if !r.decision.ShouldSend || r.decision.Media == nil {
		return nil
	}
	return &r.decision.Media.ID
}

func (r replyPlan) attachments() []model.MessageMedia {
	if !r.decision.ShouldSend || r.decision.Media == nil {
		return nil
	}
	m := r.decision.Media
	return []model.MessageMedia{{
		MediaID:    m.ID,
		Type:       m.Type,
		URL:        m.URL,
		PreviewURL: m.PreviewURL,
		Position:   0,
	}}
}

func (r replyPlan) result() model.QueueResult {
	decisionType := r.decision.Type
	if decisionType == "" {
		decisionType = model.MediaDecisionNone
	}
	text := r.text
	return model.QueueResult{
		Response:        &text,
		MediaID:         r.mediaID(),
		ShouldSendMedia: r.decision.ShouldSend,
		MediaDecision:   &decisionType,
		TeaseText:       r.decision.TeaseText,
	}
}

// replyLanguage prefers what the fan writes in, then the personality's.
func replyLanguage(history []model.Message, p *model.Personality) string {
	var fanTexts []string
	for _, m := range history {
		if m.FromFan {
			fanTexts = append(fanTexts, m.Text)
		}
	}
	if lang := brain.DetectLanguage(fanTexts); lang != "" {
		return lang
	}
	return p.Language
}

func variableContext(creator *model.Creator, stats *model.FanStats, now time.Time, rnd brain.Rand) brain.VariableContext {
	vc := brain.VariableContext{
		CreatorName:       &creator.DisplayName,
		PPVPrice:          &creator.PPVPrice,
		SubscriptionPrice: &creator.SubscriptionPrice,
		TipPrice:          &creator.TipPrice,
		Now:               now,
		Rand:              rnd,
	}
	if stats != nil {
		name := stats.Name()
		vc.FanName = &name
		vc.Username = &stats.Username
		vc.Credits = &stats.Credits
		vc.JoinedAt = &stats.JoinedAt
		vc.LastActiveAt = stats.LastActiveAt
	}
	return vc
}
