package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"

	// FieldScore is the structured log field key for a verdict's score tier.
	FieldScore = "score"
	// FieldPercentage is the structured log field key for the compatibility percentage.
	FieldPercentage = "compatibility"
	// FieldPrefiltered marks verdicts produced by the rule chain.
	FieldPrefiltered = "prefiltered"
	// FieldReason is the structured log field key for the pre-filter reason.
	FieldReason = "prefilter_reason"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the AI provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
// If the logger is nil, a no-op logger is created to avoid panics.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	fields := CommonFields(provider, model)
	return WithFields(logger, fields...)
}

// VerdictFields returns the standard fields describing one match verdict.
// The reason is omitted when empty, keeping scored verdicts compact.
func VerdictFields(score string, percentage int, prefiltered bool, reason string) []zap.Field {
	fields := []zap.Field{
		zap.String(FieldScore, score),
		zap.Int(FieldPercentage, percentage),
		zap.Bool(FieldPrefiltered, prefiltered),
	}
	if reason != "" {
		fields = append(fields, zap.String(FieldReason, reason))
	}
	return fields
}
