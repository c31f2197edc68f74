package engines

import (
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/types"
)

// PDFPageCount returns the number of pages in a PDF file.
// Files the pdf reader cannot parse yield an error, never a panic.
func PDFPageCount(path string) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			n = 0
			err = eris.Errorf("malformed PDF %s: %v", path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "failed to open PDF %s", path)
	}
	defer f.Close()
	return r.NumPage(), nil
}

// readTextLayer reads the embedded text of every page, in page order.
// Pages whose content cannot be decoded yield empty text.
func readTextLayer(path string) (pages []string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open PDF %s", path)
	}
	defer f.Close()

	// the pdf reader panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = eris.Errorf("malformed PDF %s: %v", path, rec)
		}
	}()

	total := r.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// textLayerPages converts per-page text into numbered page results
func textLayerPages(engine string, texts []string) []types.PageResult {
	pages := make([]types.PageResult, 0, len(texts))
	for i, text := range texts {
		pages = append(pages, types.PageResult{
			PageNumber: i + 1,
			Regions:    textLayerRegions(strings.ReplaceAll(text, "\r\n", "\n")),
			EngineUsed: engine,
		})
	}
	return pages
}
