package ai

import (
	"context"
	_ "embed"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/collab-matcher/internal/logger"
	"github.com/spigell/collab-matcher/internal/profile"
	"github.com/spigell/collab-matcher/internal/utils"
)

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

// ReasonWriter explains matches with a Generator.
type ReasonWriter struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewReasonWriter(generator Generator, maxLogLength int, log *zap.Logger) *ReasonWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &ReasonWriter{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (w *ReasonWriter) Explain(ctx context.Context, a, b *profile.Profile) (string, error) {
	if a == nil || b == nil {
		return "", errors.New("both profiles are required")
	}
	if w.generator == nil {
		return "", errors.New("generator is not configured")
	}

	message := buildMessage(a, b)
	fields := append(
		logger.PairFields(a.ID, b.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, w.maxLogLen)),
	)
	w.logger.Debug("explain request", fields...)

	raw, err := w.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return "", err
	}

	w.logger.Debug("explain response",
		append(logger.PairFields(a.ID, b.ID),
			zap.Int("response_length", utf8.RuneCountInString(raw)),
			zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
		)...,
	)

	reason := cleanReason(raw)
	if reason == "" {
		return "", errors.New("generator returned empty reason")
	}
	return reason, nil
}

func buildMessage(a, b *profile.Profile) string {
	return personBlock("Person 1", a) + "\n" + personBlock("Person 2", b) +
		"\nWhy should these two people connect?"
}

func cleanReason(raw string) string {
	reason := strings.TrimSpace(raw)
	reason = strings.Trim(reason, "`")
	reason = strings.TrimSpace(reason)
	if len(reason) >= 2 && strings.HasPrefix(reason, `"`) && strings.HasSuffix(reason, `"`) {
		reason = strings.TrimSpace(reason[1 : len(reason)-1])
	}
	return reason
}
