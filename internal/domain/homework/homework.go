// internal/domain/homework/homework.go
package homework

import "encoding/json"

// RawResponse is the undecoded body returned by the status endpoint.
type RawResponse []byte

// Envelope is a structurally valid status response. Records are kept raw until
// the extractor looks at them.
type Envelope struct {
	Homeworks   []json.RawMessage
	CurrentDate *int64 // nil when the response carried no current_date
}

// Record is a single homework entry. Either HomeworkName or LessonName must be set.
type Record struct {
	Status       Status
	HomeworkName string
	LessonName   string
}

// Name returns the display name, preferring homework_name over lesson_name.
func (r Record) Name() string {
	if r.HomeworkName != "" {
		return r.HomeworkName
	}
	return r.LessonName
}

// Notification is a rendered status change ready for delivery.
type Notification struct {
	HomeworkName string
	Status       Status
	Text         string
}
