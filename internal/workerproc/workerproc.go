package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{BodyLen: 0, BodySHA: ""}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrMissingConfigKey indicates a message missing the configuration key.
type ErrMissingConfigKey struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingConfigKey) Error() string { return "missing configuration key" }

// ErrUnknownOutcome indicates a message carrying an unrecognized outcome type.
type ErrUnknownOutcome struct {
	Meta        MessageMeta
	OutcomeType string
	RequestID   string
}

func (e ErrUnknownOutcome) Error() string { return "unknown outcome type: " + e.OutcomeType }

// ErrProcess indicates applying the outcome failed after successful parsing.
type ErrProcess struct {
	ConfigurationKey string
	OutcomeType      string
	RequestID        string
	Err              error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "apply outcome"
	}
	return "apply outcome: " + e.Err.Error()
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if strings.TrimSpace(msg.ConfigurationKey) == "" {
		return msg, meta, ErrMissingConfigKey{Meta: meta, RequestID: msg.RequestID}
	}
	if !outcomes.OutcomeType(msg.OutcomeType).Valid() {
		return msg, meta, ErrUnknownOutcome{Meta: meta, OutcomeType: msg.OutcomeType, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

type parsedMessageKey struct{}

// WithParsedMessage stores a decoded message in the context for reuse.
func WithParsedMessage(ctx context.Context, msg queue.Message) context.Context {
	return context.WithValue(ctx, parsedMessageKey{}, msg)
}

func parsedMessageFromContext(ctx context.Context) (queue.Message, bool) {
	if ctx == nil {
		return queue.Message{}, false
	}
	msg, ok := ctx.Value(parsedMessageKey{}).(queue.Message)
	return msg, ok
}

// Applier applies one recorded outcome to the statistics store.
type Applier interface {
	RecordOutcome(ctx context.Context, configurationKey string, outcome outcomes.OutcomeType) error
}

// HandleMessage parses, validates, and applies an outcome feedback payload.
func HandleMessage(ctx context.Context, applier Applier, body string) error {
	if applier == nil {
		return errors.New("outcome applier not configured")
	}

	msg, ok := parsedMessageFromContext(ctx)
	if !ok {
		var err error
		msg, _, err = ParseMessage(body)
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(msg.ConfigurationKey) == "" {
		return ErrMissingConfigKey{Meta: ComputeMeta(body), RequestID: msg.RequestID}
	}
	outcome := outcomes.OutcomeType(msg.OutcomeType)
	if !outcome.Valid() {
		return ErrUnknownOutcome{Meta: ComputeMeta(body), OutcomeType: msg.OutcomeType, RequestID: msg.RequestID}
	}

	if err := applier.RecordOutcome(ctx, msg.ConfigurationKey, outcome); err != nil {
		return ErrProcess{
			ConfigurationKey: msg.ConfigurationKey,
			OutcomeType:      msg.OutcomeType,
			RequestID:        msg.RequestID,
			Err:              err,
		}
	}
	return nil
}
