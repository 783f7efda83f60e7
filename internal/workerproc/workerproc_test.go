package workerproc

import (
	"context"
	"errors"
	"testing"

	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/queue"
)

type recordingApplier struct {
	keys []string
	err  error
}

func (r *recordingApplier) RecordOutcome(ctx context.Context, configurationKey string, outcome outcomes.OutcomeType) error {
	_ = ctx
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, configurationKey)
	return nil
}

func TestParseMessageValidation(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr any
	}{
		{"empty body", "   ", ErrEmptyBody{}},
		{"bad json", "{nope", ErrDecode{}},
		{"missing key", `{"outcomeType":"success"}`, ErrMissingConfigKey{}},
		{"bad outcome", `{"configurationKey":"progressive|trivex|none","outcomeType":"exploded"}`, ErrUnknownOutcome{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseMessage(tc.body)
			if err == nil {
				t.Fatalf("expected error")
			}
			switch tc.wantErr.(type) {
			case ErrEmptyBody:
				if _, ok := err.(ErrEmptyBody); !ok {
					t.Fatalf("expected ErrEmptyBody, got %T", err)
				}
			case ErrDecode:
				if _, ok := err.(ErrDecode); !ok {
					t.Fatalf("expected ErrDecode, got %T", err)
				}
			case ErrMissingConfigKey:
				if _, ok := err.(ErrMissingConfigKey); !ok {
					t.Fatalf("expected ErrMissingConfigKey, got %T", err)
				}
			case ErrUnknownOutcome:
				if _, ok := err.(ErrUnknownOutcome); !ok {
					t.Fatalf("expected ErrUnknownOutcome, got %T", err)
				}
			}
		})
	}
}

func TestParseMessageValid(t *testing.T) {
	body, _ := queue.EncodeMessage(queue.Message{
		ConfigurationKey: "progressive|trivex|anti_reflective",
		OutcomeType:      "non_adapt",
		RequestID:        "req-9",
	})

	msg, meta, err := ParseMessage(string(body))
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}
	if msg.ConfigurationKey != "progressive|trivex|anti_reflective" {
		t.Fatalf("unexpected key: %s", msg.ConfigurationKey)
	}
	if meta.BodyLen != len(body) || meta.BodySHA == "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestHandleMessageAppliesOutcome(t *testing.T) {
	applier := &recordingApplier{}
	body, _ := queue.EncodeMessage(queue.Message{
		ConfigurationKey: "single_vision|polycarbonate|hard_coat",
		OutcomeType:      "success",
	})

	if err := HandleMessage(context.Background(), applier, string(body)); err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if len(applier.keys) != 1 || applier.keys[0] != "single_vision|polycarbonate|hard_coat" {
		t.Fatalf("unexpected applied keys: %v", applier.keys)
	}
}

func TestHandleMessageWrapsApplyFailure(t *testing.T) {
	applier := &recordingApplier{err: errors.New("db down")}
	body, _ := queue.EncodeMessage(queue.Message{
		ConfigurationKey: "progressive|cr39|hard_coat",
		OutcomeType:      "remake",
		RequestID:        "req-7",
	})

	err := HandleMessage(context.Background(), applier, string(body))
	if err == nil {
		t.Fatalf("expected error")
	}
	procErr, ok := err.(ErrProcess)
	if !ok {
		t.Fatalf("expected ErrProcess, got %T", err)
	}
	if procErr.ConfigurationKey != "progressive|cr39|hard_coat" || procErr.RequestID != "req-7" {
		t.Fatalf("unexpected ErrProcess: %+v", procErr)
	}
}

func TestHandleMessageUsesParsedContext(t *testing.T) {
	applier := &recordingApplier{}
	msg := queue.Message{
		ConfigurationKey: "occupational|cr39|blue_filter",
		OutcomeType:      "success",
	}
	ctx := WithParsedMessage(context.Background(), msg)

	if err := HandleMessage(ctx, applier, "ignored body"); err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if len(applier.keys) != 1 || applier.keys[0] != "occupational|cr39|blue_filter" {
		t.Fatalf("unexpected applied keys: %v", applier.keys)
	}
}
