// internal/domain/homework/extract.go
package homework

import (
	"encoding/json"
	"fmt"
)

// Name fields accepted on a record, in order of preference.
const (
	FieldStatus       = "status"
	FieldHomeworkName = "homework_name"
	FieldLessonName   = "lesson_name"
)

// Extract renders the newest record of env. The boolean is false when the
// envelope holds no records, which is not an error.
func Extract(env Envelope) (Notification, bool, error) {
	if len(env.Homeworks) == 0 {
		return Notification{}, false, nil
	}

	rec, err := ParseRecord(env.Homeworks[0])
	if err != nil {
		return Notification{}, false, err
	}

	verdict, ok := Verdict(rec.Status)
	if !ok {
		return Notification{}, false, &UnknownStatusError{Status: string(rec.Status)}
	}

	return Notification{
		HomeworkName: rec.Name(),
		Status:       rec.Status,
		Text:         fmt.Sprintf(StatusChangeTemplate, rec.Name(), verdict),
	}, true, nil
}

// ParseRecord decodes one raw record and checks its required fields.
func ParseRecord(raw json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Record{}, &ShapeError{Reason: "homework record is not a JSON object"}
	}

	rawStatus, ok := fields[FieldStatus]
	if !ok || string(rawStatus) == "null" {
		return Record{}, &MissingFieldError{Fields: []string{FieldStatus}}
	}
	var status string
	if err := json.Unmarshal(rawStatus, &status); err != nil {
		// Non-string statuses can never match a verdict.
		return Record{}, &UnknownStatusError{Status: string(rawStatus)}
	}

	rec := Record{
		Status:       Status(status),
		HomeworkName: stringField(fields, FieldHomeworkName),
		LessonName:   stringField(fields, FieldLessonName),
	}
	if rec.Name() == "" {
		return Record{}, &MissingFieldError{Fields: []string{FieldHomeworkName, FieldLessonName}}
	}
	return rec, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
