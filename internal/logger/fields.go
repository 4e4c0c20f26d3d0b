package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldProfile  = "profile_id"
	FieldPeer     = "peer_id"
	FieldStrategy = "strategy"
)

// Strings turns key/value pairs into string fields. Blank keys or values are
// skipped and a trailing key without a value is ignored.
func Strings(kv ...string) []zap.Field {
	out := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// With attaches fields to log. A nil log becomes a no-op logger.
func With(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// ForProvider tags log with the AI provider and model.
func ForProvider(log *zap.Logger, provider, model string) *zap.Logger {
	return With(log, Strings(FieldProvider, provider, FieldModel, model)...)
}

// PairFields describes a profile pair, dropping empty IDs.
func PairFields(profileID, peerID string) []zap.Field {
	return Strings(FieldProfile, profileID, FieldPeer, peerID)
}

// WithStrategy tags log with the ranking strategy.
func WithStrategy(log *zap.Logger, strategy string) *zap.Logger {
	return With(log, Strings(FieldStrategy, strategy)...)
}
