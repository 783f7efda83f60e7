package outcomes_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lensrec-backend/internal/outcomes"
	"lensrec-backend/internal/queue"
)

type captureQueue struct {
	sent []queue.Message
	err  error
}

func (q *captureQueue) Send(ctx context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, msg)
	return nil
}

func newOutcomesRouter(repo outcomes.Repo, q queue.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := outcomes.NewHandler(repo, q)
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postOutcome(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/outcomes", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRecordOutcomeAppliesSynchronouslyWithoutQueue(t *testing.T) {
	repo := outcomes.NewMemoryRepo()
	r := newOutcomesRouter(repo, nil)

	resp := postOutcome(t, r, `{"configurationKey":"progressive|trivex|anti_reflective","outcomeType":"success"}`)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	stats, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("expected 1 statistic, got %d", len(stats))
	}
	if stats[0].SampleSize != 1 || stats[0].Successes != 1 {
		t.Fatalf("unexpected statistic: %+v", stats[0])
	}
}

func TestRecordOutcomeEnqueuesWhenQueueConfigured(t *testing.T) {
	repo := outcomes.NewMemoryRepo()
	q := &captureQueue{}
	r := newOutcomesRouter(repo, q)

	resp := postOutcome(t, r, `{"configurationKey":"single_vision|cr39|hard_coat","outcomeType":"remake"}`)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	if len(q.sent) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(q.sent))
	}
	msg := q.sent[0]
	if msg.ConfigurationKey != "single_vision|cr39|hard_coat" || msg.OutcomeType != "remake" {
		t.Fatalf("unexpected message: %+v", msg)
	}

	stats, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("expected no synchronous writes when queue is configured, got %d", len(stats))
	}
}

func TestRecordOutcomeRejectsBadInput(t *testing.T) {
	repo := outcomes.NewMemoryRepo()
	r := newOutcomesRouter(repo, nil)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"bad key", `{"configurationKey":"progressive|unobtanium|none","outcomeType":"success"}`},
		{"bad outcome", `{"configurationKey":"progressive|trivex|none","outcomeType":"exploded"}`},
		{"missing key", `{"outcomeType":"success"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postOutcome(t, r, tc.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
			}
		})
	}
}
