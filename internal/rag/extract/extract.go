package extract

import (
	"context"
	"strings"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/internal/rag/extract/ocr"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// SourceFile is one downloaded document: identifier, display name and raw
// bytes. The bytes are only read here and can be dropped afterwards.
type SourceFile struct {
	Id   string
	Name string
	Data []byte
}

type Extractor struct {
	ocrEngine ocr.Engine
	threshold int
	logger    *logger_i.Logger
}

func New(engine ocr.Engine) *Extractor {
	return &Extractor{
		ocrEngine: engine,
		threshold: config.OCRCharThreshold,
		logger:    logger_i.NewLogger("Extractor"),
	}
}

// needsOCR decides whether a page's native text layer is too thin to trust.
// Purely a character-count policy, cheap pages with real text skip the raster.
func needsOCR(nativeCharCount int, threshold int) bool {
	return nativeCharCount < threshold
}

// ExtractDocument turns one source file into ordered pages plus document
// stats. Failures are reported in the result, never returned, so one bad
// file cannot abort a batch.
func (e *Extractor) ExtractDocument(ctx context.Context, file SourceFile) commonModels.ExtractionResult {
	result := commonModels.ExtractionResult{
		FileId:   file.Id,
		Filename: file.Name,
	}

	if len(file.Data) == 0 {
		result.Error = "empty file"
		return result
	}

	docType := DocTypeOf(file.Name)
	switch docType {
	case commonModels.PDF:
		return e.extractPDF(ctx, file)
	case commonModels.DOCX:
		return e.extractFlat(file)
	default:
		result.Error = "unsupported document type"
		return result
	}
}

func (e *Extractor) extractPDF(ctx context.Context, file SourceFile) commonModels.ExtractionResult {
	result := commonModels.ExtractionResult{
		FileId:   file.Id,
		Filename: file.Name,
	}

	reader, err := openPDF(file.Data)
	if err != nil {
		e.logger.Error("failed opening pdf", "filename", file.Name, "error", err)
		result.Error = err.Error()
		return result
	}

	result.Metadata = pdfMetadata(reader)

	raws := nativePDFPages(reader)
	pages := make([]commonModels.Page, 0, len(raws))
	for _, raw := range raws {
		pages = append(pages, e.buildPage(ctx, file.Data, raw))
	}

	return e.finalize(result, pages)
}

// buildPage applies the OCR fallback policy to one page's native text.
func (e *Extractor) buildPage(ctx context.Context, raw []byte, page rawPage) commonModels.Page {
	if page.Err != nil {
		e.logger.Error("page extraction failed", "page", page.Index, "error", page.Err)
		return commonModels.Page{
			Index: page.Index,
			Error: page.Err.Error(),
		}
	}

	// counts are taken on the trimmed text, so the OCR decision and the
	// reported original_char_count always agree
	trimmed := strings.TrimSpace(page.Content)

	if !needsOCR(len(trimmed), e.threshold) || e.ocrEngine == nil {
		return commonModels.Page{
			Index:     page.Index,
			Text:      trimmed,
			CharCount: len(trimmed),
		}
	}

	ocrText, err := e.ocrEngine.RecognizePage(ctx, raw, page.Index)
	if err != nil {
		// page keeps its best-effort native text
		e.logger.Warn("ocr fallback failed", "page", page.Index, "error", err)
		return commonModels.Page{
			Index:     page.Index,
			Text:      trimmed,
			CharCount: len(trimmed),
			OCRError:  err.Error(),
		}
	}

	combined := ocrText
	if trimmed != "" {
		combined = trimmed + "\n" + ocrText
	}
	text := strings.TrimSpace(combined)

	return commonModels.Page{
		Index:             page.Index,
		Text:              text,
		CharCount:         len(text),
		OCRUsed:           true,
		OriginalCharCount: len(trimmed),
	}
}

func (e *Extractor) extractFlat(file SourceFile) commonModels.ExtractionResult {
	result := commonModels.ExtractionResult{
		FileId:   file.Id,
		Filename: file.Name,
	}

	raws, err := extractCatFile(file.Name, file.Data)
	if err != nil {
		e.logger.Error("failed extracting document", "filename", file.Name, "error", err)
		result.Error = err.Error()
		return result
	}

	pages := make([]commonModels.Page, 0, len(raws))
	for _, raw := range raws {
		text := strings.TrimSpace(raw.Content)
		pages = append(pages, commonModels.Page{
			Index:     raw.Index,
			Text:      text,
			CharCount: len(text),
		})
	}
	return e.finalize(result, pages)
}

func (e *Extractor) finalize(result commonModels.ExtractionResult, pages []commonModels.Page) commonModels.ExtractionResult {
	var builder strings.Builder
	for _, p := range pages {
		builder.WriteString(p.Text)
		builder.WriteString("\n")
		if p.OCRUsed {
			result.OCRPagesCount++
		}
	}

	text := strings.TrimSpace(builder.String())

	result.Success = true
	result.Text = text
	result.Pages = pages
	result.PageCount = len(pages)
	result.CharCount = len(text)
	result.WordCount = len(strings.Fields(text))
	return result
}
