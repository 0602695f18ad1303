// internal/domain/homework/validate.go
package homework

import (
	"bytes"
	"encoding/json"
	"errors"
)

var jsonNull = []byte("null")

// Validate checks the envelope of a status response. It never looks inside
// individual records.
func Validate(raw RawResponse) (Envelope, error) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || bytes.Equal(body, jsonNull) {
		return Envelope{}, &ShapeError{Reason: "response is empty"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Envelope{}, &ShapeError{Reason: "response is not a JSON object, got " + typeErr.Value}
		}
		return Envelope{}, &ShapeError{Reason: "response is not valid JSON: " + err.Error()}
	}
	if len(fields) == 0 {
		return Envelope{}, &ShapeError{Reason: "response is empty"}
	}

	rawHomeworks, ok := fields["homeworks"]
	if !ok {
		return Envelope{}, &ShapeError{Reason: `response has no "homeworks" key`}
	}
	var homeworks []json.RawMessage
	if bytes.Equal(bytes.TrimSpace(rawHomeworks), jsonNull) || json.Unmarshal(rawHomeworks, &homeworks) != nil {
		return Envelope{}, &ShapeError{Reason: `"homeworks" is not a list`}
	}

	env := Envelope{Homeworks: homeworks}
	if rawDate, ok := fields["current_date"]; ok && !bytes.Equal(bytes.TrimSpace(rawDate), jsonNull) {
		var date int64
		if err := json.Unmarshal(rawDate, &date); err != nil {
			return Envelope{}, &ShapeError{Reason: `"current_date" is not an integer`}
		}
		env.CurrentDate = &date
	}
	return env, nil
}
