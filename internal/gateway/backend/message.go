package backend

import (
	"encoding/json"
	"strings"
)

// DiagnosticLimit is how many characters of a non-JSON body end up in an
// error message.
const DiagnosticLimit = 100

// JSONMessage returns the "message" field of a JSON object body. ok is false
// when body is not a JSON object; msg may be empty even when ok is true.
func JSONMessage(body []byte) (msg string, ok bool) {
	var v struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return "", false
	}
	return v.Message, true
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// TrimBody returns the body as text without surrounding whitespace.
func TrimBody(body []byte) string {
	return strings.TrimSpace(string(body))
}
