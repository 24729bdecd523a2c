package queue

type TaskType string

const (
	TaskTypeMemoryExtract    TaskType = "memory_extract"
	TaskTypePersonalNote     TaskType = "personal_note"
	TaskTypeFanQualification TaskType = "fan_qualification"
)

// Task is a detached side effect of a processed queue entry. All three task
// types carry the same references; handlers load whatever else they need.
type Task struct {
	TaskType       TaskType
	ConversationID int64
	MessageID      int64
	FanID          int64
	CreatorSlug    string
	TraceID        *string
	Attempt        int
}

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeMemoryExtract, TaskTypePersonalNote, TaskTypeFanQualification:
		return true
	default:
		return false
	}
}
