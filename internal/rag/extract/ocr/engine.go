package ocr

import "context"

// Engine recognizes text on one page of a raw document. Implementations
// rasterize the page themselves so engines with different raster needs stay
// swappable behind this interface.
type Engine interface {
	RecognizePage(ctx context.Context, raw []byte, pageIndex int) (string, error)
}
