package worker

import "github.com/Raphi52/OnlyVIP-sub000/internal/model"

// Termination reasons recorded on the queue entry.
const (
	ReasonHandoffPrefix      = "Handoff triggered: "
	ReasonInsufficientCredit = "Insufficient AI credits"
	ReasonNoPersonality      = "No AI personality available"
	ReasonAIDisabled         = "AI disabled for conversation"
	ReasonNoResponse         = "No response generated"
	ReasonStaleProcessing    = "Processing timed out"
)

// Outcome is how the pipeline ended for an entry. Policy terminations are
// outcomes, never errors, so they are not retried.
type Outcome struct {
	Status model.QueueStatus
	Reason string
	Result model.QueueResult

	// chargeCredit is set once a reply was sent on the platform key.
	chargeCredit bool
}

func completed(result model.QueueResult, chargeCredit bool) Outcome {
	return Outcome{Status: model.QueueStatusCompleted, Result: result, chargeCredit: chargeCredit}
}

func failed(reason string) Outcome {
	return Outcome{Status: model.QueueStatusFailed, Reason: reason}
}

func skipped(reason string) Outcome {
	return Outcome{Status: model.QueueStatusSkipped, Reason: reason}
}

// BatchResult summarizes one ProcessBatch run.
type BatchResult struct {
	Processed int `json:"processed"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Requeued  int `json:"requeued"`
}

func (b *BatchResult) add(status model.QueueStatus) {
	switch status {
	case model.QueueStatusCompleted:
		b.Completed++
	case model.QueueStatusFailed:
		b.Failed++
	case model.QueueStatusSkipped:
		b.Skipped++
	case model.QueueStatusPending:
		b.Requeued++
	default:
		return
	}
	b.Processed++
}
