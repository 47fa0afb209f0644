package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
	"github.com/tealeg/xlsx"

	"docuchat/internal/models"
)

// Load walks root recursively and extracts per-page text from every file
// whose extension is in exts. A file that fails to open or parse is logged
// and skipped; pages without text are dropped silently. An empty result is
// valid and means "no content", not an error.
func Load(root string, exts []string) ([]models.PageText, error) {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if allowed[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	if len(files) == 0 {
		log.Warn().Str("root", root).Msg("No matching documents found")
		return nil, nil
	}
	log.Info().Int("files", len(files)).Str("root", root).Msg("Found documents, extracting text")

	var pages []models.PageText
	for _, path := range files {
		extracted, err := extractFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable document")
			continue
		}
		pages = append(pages, extracted...)
	}
	return pages, nil
}

func extractFile(path string) ([]models.PageText, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".xlsx":
		return extractXLSX(path)
	case ".txt":
		return extractText(path)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}

func extractPDF(path string) ([]models.PageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	var pages []models.PageText
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Debug().Err(err).Str("file", filename).Int("page", i).Msg("Page text extraction failed")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, models.PageText{Text: text, Source: filename, Page: i})
	}
	return pages, nil
}

// extractDOCX flattens the whole document to one page: the format carries no
// page boundaries.
func extractDOCX(path string) ([]models.PageText, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	return []models.PageText{{Text: content, Source: filepath.Base(path), Page: 1}}, nil
}

// extractXLSX treats each sheet as a page, in workbook order.
func extractXLSX(path string) ([]models.PageText, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	var pages []models.PageText
	for sheetNum, sheet := range f.Sheets {
		var cells strings.Builder
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				cells.WriteString(cell.String() + "\t")
			}
			cells.WriteString("\n")
		}
		if strings.TrimSpace(cells.String()) == "" {
			continue
		}
		text := fmt.Sprintf("Sheet: %s\n%s", sheet.Name, cells.String())
		pages = append(pages, models.PageText{Text: text, Source: filename, Page: sheetNum + 1})
	}
	return pages, nil
}

func extractText(path string) ([]models.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}
	return []models.PageText{{Text: string(data), Source: filepath.Base(path), Page: 1}}, nil
}
