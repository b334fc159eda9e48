package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// --- Mocks ---

type mockOCR struct {
	recognizeFunc func(ctx context.Context, raw []byte, pageIndex int) (string, error)
	calls         int
}

func (m *mockOCR) RecognizePage(ctx context.Context, raw []byte, pageIndex int) (string, error) {
	m.calls++
	return m.recognizeFunc(ctx, raw, pageIndex)
}

func newTestExtractor(engine *mockOCR) *Extractor {
	e := &Extractor{
		threshold: config.OCRCharThreshold,
		logger:    logger_i.NewLogger("ExtractorTest"),
	}
	if engine != nil {
		e.ocrEngine = engine
	}
	return e
}

// --- Unit Tests ---

func TestDocTypeOf(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"report.pdf", commonModels.PDF},
		{"REPORT.PDF", commonModels.PDF},
		{"notes.docx", commonModels.DOCX},
		{"notes.txt", commonModels.DOCX},
		{"legacy.rtf", commonModels.DOCX},
		{"image.png", commonModels.ERR},
		{"noextension", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := DocTypeOf(tt.path); got != tt.expected {
			t.Errorf("DocTypeOf(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		chars    int
		expected bool
	}{
		{0, true},
		{49, true},
		{50, false},
		{500, false},
	}

	for _, tt := range tests {
		if got := needsOCR(tt.chars, config.OCRCharThreshold); got != tt.expected {
			t.Errorf("needsOCR(%d) = %v; want %v", tt.chars, got, tt.expected)
		}
	}
}

func TestBuildPage_NativeTextSkipsOCR(t *testing.T) {
	native := strings.Repeat("real text ", 10) // well over the threshold
	engine := &mockOCR{
		recognizeFunc: func(ctx context.Context, raw []byte, idx int) (string, error) {
			return "should not run", nil
		},
	}
	e := newTestExtractor(engine)

	page := e.buildPage(context.Background(), nil, rawPage{Index: 0, Content: native})

	if engine.calls != 0 {
		t.Errorf("Expected no OCR calls for a text-rich page, got %d", engine.calls)
	}
	if page.OCRUsed {
		t.Error("OCRUsed should be false when the native layer is kept")
	}
	if page.Text != strings.TrimSpace(native) {
		t.Errorf("Unexpected page text: %q", page.Text)
	}
}

func TestBuildPage_SparsePageFallsBackToOCR(t *testing.T) {
	engine := &mockOCR{
		recognizeFunc: func(ctx context.Context, raw []byte, idx int) (string, error) {
			return "recognized scan text", nil
		},
	}
	e := newTestExtractor(engine)

	native := "hdr"
	page := e.buildPage(context.Background(), []byte("pdfbytes"), rawPage{Index: 3, Content: native})

	if engine.calls != 1 {
		t.Fatalf("Expected 1 OCR call, got %d", engine.calls)
	}
	if !page.OCRUsed {
		t.Error("OCRUsed should be true after a successful fallback")
	}
	if page.OriginalCharCount != len(native) {
		t.Errorf("OriginalCharCount = %d; want %d", page.OriginalCharCount, len(native))
	}
	// the thin native layer is kept in front of the recognized text
	if !strings.HasPrefix(page.Text, "hdr") || !strings.Contains(page.Text, "recognized scan text") {
		t.Errorf("Combined text missing a layer: %q", page.Text)
	}
	if page.CharCount < page.OriginalCharCount {
		t.Errorf("CharCount %d fell below OriginalCharCount %d", page.CharCount, page.OriginalCharCount)
	}
}

func TestBuildPage_WhitespacePaddedSparsePage(t *testing.T) {
	engine := &mockOCR{
		recognizeFunc: func(ctx context.Context, raw []byte, idx int) (string, error) {
			return "hi", nil
		},
	}
	e := newTestExtractor(engine)

	// padding alone pushes the raw length past the threshold
	native := strings.Repeat(" ", 60) + "hdr"
	page := e.buildPage(context.Background(), []byte("pdfbytes"), rawPage{Index: 0, Content: native})

	if !page.OCRUsed {
		t.Fatal("A whitespace-padded sparse page should still fall back to OCR")
	}
	if page.OriginalCharCount >= config.OCRCharThreshold {
		t.Errorf("OriginalCharCount = %d; an OCR page's native layer must count below %d",
			page.OriginalCharCount, config.OCRCharThreshold)
	}
	if page.OriginalCharCount != len("hdr") {
		t.Errorf("OriginalCharCount = %d; want the trimmed native length %d", page.OriginalCharCount, len("hdr"))
	}
	if page.CharCount < page.OriginalCharCount {
		t.Errorf("CharCount %d fell below OriginalCharCount %d", page.CharCount, page.OriginalCharCount)
	}
	if page.Text != "hdr\nhi" {
		t.Errorf("Unexpected combined text: %q", page.Text)
	}
}

func TestBuildPage_EmptyNativeUsesOCROnly(t *testing.T) {
	engine := &mockOCR{
		recognizeFunc: func(ctx context.Context, raw []byte, idx int) (string, error) {
			return "scan only", nil
		},
	}
	e := newTestExtractor(engine)

	page := e.buildPage(context.Background(), []byte("pdfbytes"), rawPage{Index: 0, Content: "   "})

	if page.Text != "scan only" {
		t.Errorf("Expected OCR text alone, got %q", page.Text)
	}
	if !page.OCRUsed {
		t.Error("OCRUsed should be true")
	}
}

func TestBuildPage_OCRFailureKeepsNative(t *testing.T) {
	engine := &mockOCR{
		recognizeFunc: func(ctx context.Context, raw []byte, idx int) (string, error) {
			return "", errors.New("tesseract exploded")
		},
	}
	e := newTestExtractor(engine)

	page := e.buildPage(context.Background(), []byte("pdfbytes"), rawPage{Index: 1, Content: "tiny"})

	if page.OCRUsed {
		t.Error("OCRUsed should be false when recognition fails")
	}
	if page.OCRError == "" {
		t.Error("Expected OCRError to be recorded")
	}
	if page.Text != "tiny" {
		t.Errorf("Native text should survive an OCR failure, got %q", page.Text)
	}
}

func TestBuildPage_PageErrorIsIsolated(t *testing.T) {
	e := newTestExtractor(nil)

	page := e.buildPage(context.Background(), nil, rawPage{Index: 2, Err: errors.New("page object is null")})

	if page.Error == "" {
		t.Error("Expected the page error to be carried on the page")
	}
	if page.Text != "" {
		t.Errorf("Failed page should have no text, got %q", page.Text)
	}
}

func TestFinalize_Stats(t *testing.T) {
	e := newTestExtractor(nil)
	pages := []commonModels.Page{
		{Index: 0, Text: "alpha beta", OCRUsed: true},
		{Index: 1, Text: "gamma"},
		{Index: 2, Text: ""},
	}

	result := e.finalize(commonModels.ExtractionResult{Filename: "x.pdf"}, pages)

	if !result.Success {
		t.Error("finalize should mark the result successful")
	}
	if result.PageCount != 3 {
		t.Errorf("PageCount = %d; want 3", result.PageCount)
	}
	if result.OCRPagesCount != 1 {
		t.Errorf("OCRPagesCount = %d; want 1", result.OCRPagesCount)
	}
	if result.WordCount != 3 {
		t.Errorf("WordCount = %d; want 3", result.WordCount)
	}
	if result.Text != "alpha beta\ngamma" {
		t.Errorf("Unexpected joined text: %q", result.Text)
	}
}

func TestFinalize_EmptyDocumentStillSucceeds(t *testing.T) {
	e := newTestExtractor(nil)
	pages := []commonModels.Page{{Index: 0, Text: ""}}

	result := e.finalize(commonModels.ExtractionResult{Filename: "blank.pdf"}, pages)

	if !result.Success {
		t.Error("A document with no extractable text is still a success")
	}
	if result.Text != "" || result.CharCount != 0 || result.WordCount != 0 {
		t.Errorf("Expected empty stats, got %+v", result)
	}
}

func TestExtractDocument_RejectsEmptyAndUnknown(t *testing.T) {
	e := newTestExtractor(nil)

	empty := e.ExtractDocument(context.Background(), SourceFile{Name: "a.pdf"})
	if empty.Success || empty.Error == "" {
		t.Errorf("Empty file should fail: %+v", empty)
	}

	unknown := e.ExtractDocument(context.Background(), SourceFile{Name: "pic.png", Data: []byte{1}})
	if unknown.Success || unknown.Error == "" {
		t.Errorf("Unsupported type should fail: %+v", unknown)
	}
}

func TestExtractDocument_PlainText(t *testing.T) {
	e := newTestExtractor(nil)

	result := e.ExtractDocument(context.Background(), SourceFile{
		Name: "notes.txt",
		Data: []byte("line one\nline two\n"),
	})

	if !result.Success {
		t.Fatalf("Plain text extraction failed: %s", result.Error)
	}
	if result.PageCount != 1 {
		t.Errorf("PageCount = %d; want 1", result.PageCount)
	}
	if result.WordCount != 4 {
		t.Errorf("WordCount = %d; want 4", result.WordCount)
	}
	if result.OCRPagesCount != 0 {
		t.Errorf("Plain text should never use OCR, got %d pages", result.OCRPagesCount)
	}
}
