// internal/domain/homework/verdict.go
package homework

// Status is the review state of a homework as reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// StatusChangeTemplate is the text sent when the newest homework changes status.
const StatusChangeTemplate = `Изменился статус проверки работы "%s". %s`

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the human-readable verdict for a status.
func Verdict(s Status) (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}
