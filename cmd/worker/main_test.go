package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/queue"
)

type fakeSQS struct {
	deleted []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	_ = ctx
	_ = params
	_ = optFns
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	_ = ctx
	_ = optFns
	f.deleted = append(f.deleted, aws.ToString(params.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

type fakeApplier struct {
	applied []string
	err     error
}

func (f *fakeApplier) RecordOutcome(ctx context.Context, configurationKey string, outcome outcomes.OutcomeType) error {
	_ = ctx
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, configurationKey+"|"+string(outcome))
	return nil
}

func TestWorkerDeletesMessageOnSuccess(t *testing.T) {
	client := &fakeSQS{}
	applier := &fakeApplier{}
	msgBody, _ := queue.EncodeMessage(queue.Message{
		ConfigurationKey: "progressive|trivex|anti_reflective",
		OutcomeType:      "success",
		RequestID:        "req-1",
	})
	msg := sqstypes.Message{
		MessageId:     aws.String("m1"),
		ReceiptHandle: aws.String("r1"),
		Body:          aws.String(string(msgBody)),
		Attributes:    map[string]string{"ApproximateReceiveCount": "1"},
	}

	handleMessage(context.Background(), client, "queue", applier, msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	if len(applier.applied) != 1 || applier.applied[0] != "progressive|trivex|anti_reflective|success" {
		t.Fatalf("unexpected applied outcomes: %v", applier.applied)
	}
}

func TestWorkerDoesNotDeleteOnFailure(t *testing.T) {
	client := &fakeSQS{}
	applier := &fakeApplier{err: errors.New("boom")}
	msgBody, _ := queue.EncodeMessage(queue.Message{
		ConfigurationKey: "single_vision|cr39|hard_coat",
		OutcomeType:      "remake",
		RequestID:        "req-2",
	})
	msg := sqstypes.Message{
		MessageId:     aws.String("m2"),
		ReceiptHandle: aws.String("r2"),
		Body:          aws.String(string(msgBody)),
	}

	handleMessage(context.Background(), client, "queue", applier, msg)

	if len(client.deleted) != 0 {
		t.Fatalf("expected no delete, got %d", len(client.deleted))
	}
}

func TestWorkerDeletesOnInvalidJSON(t *testing.T) {
	client := &fakeSQS{}
	applier := &fakeApplier{}
	msg := sqstypes.Message{
		MessageId:     aws.String("m3"),
		ReceiptHandle: aws.String("r3"),
		Body:          aws.String("{bad-json"),
	}

	handleMessage(context.Background(), client, "queue", applier, msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	if len(applier.applied) != 0 {
		t.Fatalf("expected no outcomes applied, got %v", applier.applied)
	}
}

func TestWorkerDeletesOnUnknownOutcomeType(t *testing.T) {
	client := &fakeSQS{}
	applier := &fakeApplier{}
	msgBody, _ := queue.EncodeMessage(queue.Message{
		ConfigurationKey: "progressive|trivex|none",
		OutcomeType:      "exploded",
	})
	msg := sqstypes.Message{
		MessageId:     aws.String("m4"),
		ReceiptHandle: aws.String("r4"),
		Body:          aws.String(string(msgBody)),
	}

	handleMessage(context.Background(), client, "queue", applier, msg)

	if len(client.deleted) != 1 {
		t.Fatalf("expected delete, got %d", len(client.deleted))
	}
	if len(applier.applied) != 0 {
		t.Fatalf("expected no outcomes applied, got %v", applier.applied)
	}
}
