package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const pdfFont = "Helvetica"

// fpdfMetrics measures text with the core font the document is rendered in.
// Text is translated to cp1252 before measuring, matching what gets drawn.
type fpdfMetrics struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	opts Options
}

func (m fpdfMetrics) StringWidth(s string) float64 {
	m.pdf.SetFont(pdfFont, "", m.opts.FontSize)
	return m.pdf.GetStringWidth(m.tr(s))
}

func (m fpdfMetrics) TitleWidth(s string) float64 {
	m.pdf.SetFont(pdfFont, "B", m.opts.TitleSize)
	return m.pdf.GetStringWidth(m.tr(s))
}

// WritePDF renders a note as a paginated PDF to w.
func WritePDF(w io.Writer, title, content string, opts Options) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: opts.PageWidth, Ht: opts.PageHeight},
	})
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	pdf.SetAutoPageBreak(false, opts.Margin)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	metrics := fpdfMetrics{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), opts: opts}
	doc := Paginate(title, content, opts, metrics)

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, line := range page.Lines {
			switch line.Kind {
			case LineBlank:
				continue
			case LineTitle:
				pdf.SetFont(pdfFont, "B", opts.TitleSize)
			default:
				pdf.SetFont(pdfFont, "", opts.FontSize)
			}
			pdf.Text(opts.Margin, line.Y, metrics.tr(line.Text))
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

// SavePDF writes the note to dir/FileName(title, ".pdf"), replacing any existing file,
// and returns the path written.
func SavePDF(dir, title, content string, opts Options) (string, error) {
	return saveFile(dir, FileName(title, ".pdf"), func(w io.Writer) error {
		return WritePDF(w, title, content, opts)
	})
}

func saveFile(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := write(f); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
