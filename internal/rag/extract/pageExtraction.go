package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
)

type rawPage struct {
	Index   int
	Content string
	Err     error
}

// DocTypeOf classifies a file by extension. Anything outside the supported
// set maps to ERR.
func DocTypeOf(name string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".txt", ".rtf":
		return commonModels.DOCX
	default:
		return commonModels.ERR
	}
}

func openPDF(raw []byte) (*pdf.Reader, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return r, nil
}

// nativePDFPages reads the text layer of every page. A page whose extraction
// fails carries its error instead of aborting the document.
func nativePDFPages(r *pdf.Reader) []rawPage {
	numPages := r.NumPage()
	pages := make([]rawPage, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, rawPage{Index: i - 1, Err: errors.New("page object is null")})
			continue
		}
		content, err := protectExtract(page)
		pages = append(pages, rawPage{Index: i - 1, Content: content, Err: err})
	}
	return pages
}

func pdfMetadata(r *pdf.Reader) commonModels.DocMetadata {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return commonModels.DocMetadata{}
	}
	return commonModels.DocMetadata{
		Title:  info.Key("Title").Text(),
		Author: info.Key("Author").Text(),
	}
}

// extractCatFile reads a .docx, .rtf or plaintext payload as a single page.
// cat works on files, so the bytes take a round trip through a temp file.
func extractCatFile(name string, raw []byte) ([]rawPage, error) {
	tmp, err := os.CreateTemp("", "extract-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("failed to stage file for extraction: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to stage file for extraction: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to stage file for extraction: %w", err)
	}

	text, err := cat.File(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to extract document text: %w", err)
	}
	return []rawPage{{Index: 0, Content: text}}, nil
}

// protectExtract guards GetPlainText, which can hang on malformed pages.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PageExtractTimeout):
		return "", errors.New("page extraction timeout")
	}
}
