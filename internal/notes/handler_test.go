package notes_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"lensrec-backend/internal/bootstrap"
	sharedauth "lensrec-backend/internal/shared/auth"
	"lensrec-backend/internal/shared/config"
)

func buildTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func authorize(t *testing.T, req *http.Request) {
	t.Helper()
	token, err := sharedauth.SignJWT(sharedauth.Claims{Sub: "tenant-notes-test"})
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func uploadNote(t *testing.T, router *gin.Engine, orderID, fileName, contents string) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("orderId", orderID); err != nil {
		t.Fatalf("write orderId field: %v", err)
	}
	fileWriter, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(contents)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/notes", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	authorize(t, req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestNotesUploadAndCurrent(t *testing.T) {
	router := buildTestApp(t)

	resp := uploadNote(t, router, "order-77", "visit-notes.txt", "First-time progressive wearer. Night driving glare.")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		NoteID   string `json:"noteId"`
		OrderID  string `json:"orderId"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.NoteID == "" {
		t.Fatalf("expected noteId, got empty")
	}
	if created.OrderID != "order-77" {
		t.Fatalf("expected orderId order-77, got %s", created.OrderID)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/notes/current?orderId=order-77", nil)
	authorize(t, reqGet)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respGet.Code, respGet.Body.String())
	}

	var current struct {
		NoteID   string `json:"noteId"`
		FileName string `json:"fileName"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&current); err != nil {
		t.Fatalf("decode current response: %v", err)
	}
	if current.FileName != "visit-notes.txt" {
		t.Fatalf("expected fileName visit-notes.txt, got %s", current.FileName)
	}
	if current.NoteID != created.NoteID {
		t.Fatalf("expected current note %s, got %s", created.NoteID, current.NoteID)
	}
}

func TestNotesUploadRequiresOrderID(t *testing.T) {
	router := buildTestApp(t)

	resp := uploadNote(t, router, "", "visit-notes.txt", "some text")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestNotesExtractReturnsPlainText(t *testing.T) {
	router := buildTestApp(t)

	notesText := "Works on computer 8+ hrs daily. Complains of night driving glare."
	resp := uploadNote(t, router, "order-88", "intake.txt", notesText)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created struct {
		NoteID string `json:"noteId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	reqExtract := httptest.NewRequest(http.MethodPost, "/api/v1/notes/"+created.NoteID+"/extract", nil)
	authorize(t, reqExtract)
	respExtract := httptest.NewRecorder()
	router.ServeHTTP(respExtract, reqExtract)

	if respExtract.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", respExtract.Code, respExtract.Body.String())
	}

	var extracted struct {
		NoteID string `json:"noteId"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(respExtract.Body).Decode(&extracted); err != nil {
		t.Fatalf("decode extract response: %v", err)
	}
	if extracted.Text != notesText {
		t.Fatalf("unexpected extracted text: %q", extracted.Text)
	}
}

func TestNotesRequireAuth(t *testing.T) {
	router := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}
