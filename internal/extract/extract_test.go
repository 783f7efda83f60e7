package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + body + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(xml)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_PlainText(t *testing.T) {
	notes := "First-time progressive wearer. Night driving glare.\n"
	got, err := ExtractTextFromBytes(context.Background(), []byte(notes), "text/plain; charset=utf-8", "notes.txt")
	if err != nil {
		t.Fatalf("extract plain text: %v", err)
	}
	if got != strings.TrimSpace(notes) {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFromBytes_TxtExtensionWithoutMime(t *testing.T) {
	got, err := ExtractTextFromBytes(context.Background(), []byte("computer work 8 hours"), "", "notes.txt")
	if err != nil {
		t.Fatalf("extract txt without mime: %v", err)
	}
	if got != "computer work 8 hours" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, "Patient reports eye strain at the computer.")

	got, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "notes.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if !strings.Contains(got, "eye strain") {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.csv")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if err == nil {
		t.Fatal("expected unsupported mime error for zip")
	}
	if !strings.Contains(err.Error(), "unsupported mime type: application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}
