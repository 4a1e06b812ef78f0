package slogx

import "log/slog"

// redactKeep is how much of a credential survives in log output.
const redactKeep = 12

// Redact shortens a bearer credential so it can be correlated in logs
// without being replayable.
func Redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= redactKeep {
		return "..."
	}
	return secret[:redactKeep] + "..."
}

// Token returns a log attribute holding a redacted token.
func Token(key, token string) slog.Attr {
	return slog.String(key, Redact(token))
}
