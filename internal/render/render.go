// Package render draws laid-out card pages into a PDF.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"paranoia/internal/layout"
)

const (
	cutWidth  = 0.3
	foldWidth = 0.2
	foldDash  = 2.0 // mm on, mm off
)

// Renderer turns page descriptors into a PDF document.
type Renderer struct {
	log   *zap.Logger
	title string
}

// New creates a Renderer. A nil logger discards warnings.
func New(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log, title: "Paranoia cards"}
}

// Write renders pages and writes the PDF to w.
func (r *Renderer) Write(w io.Writer, pages []layout.Page) error {
	if len(pages) == 0 {
		return fmt.Errorf("render: no pages")
	}
	size := pages[0].Size
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size.W, Ht: size.H},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(r.title, true)
	pdf.SetCreator("paranoia", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		pdf.AddPage()
		if page.Blank {
			continue
		}
		drawGuides(pdf, page.Lines)
		for _, b := range page.Blocks {
			if err := r.drawBlock(pdf, tr, page, b); err != nil {
				return fmt.Errorf("render card %d: %w", page.Serial, err)
			}
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("render card %d: %w", page.Serial, err)
		}
	}
	return pdf.Output(w)
}

// WriteFile renders pages into the file at path. A failed render leaves no
// partial file behind.
func (r *Renderer) WriteFile(path string, pages []layout.Page) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("render: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return r.Write(f, pages)
}

func drawGuides(pdf *fpdf.Fpdf, lines []layout.Line) {
	for _, l := range lines {
		switch l.Kind {
		case layout.CutLine:
			pdf.SetLineWidth(cutWidth)
			pdf.SetDashPattern(nil, 0)
		case layout.FoldLine:
			pdf.SetLineWidth(foldWidth)
			pdf.SetDashPattern([]float64{foldDash, foldDash}, 0)
		}
		pdf.Line(l.X1, l.Y1, l.X2, l.Y2)
	}
	pdf.SetDashPattern(nil, 0)
}

type measured struct {
	run   layout.Run
	text  string
	lines int
}

// UnencodableError reports text the built-in PDF fonts cannot show. The
// cp1252 translator would print it as dots.
type UnencodableError struct {
	Panel layout.Panel
	Text  string
	Rune  rune
}

func (e *UnencodableError) Error() string {
	return fmt.Sprintf("%s panel: %q contains %q, which the built-in fonts cannot print", e.Panel, e.Text, e.Rune)
}

// encode translates s to cp1252 and reports the first rune the translator
// had to replace.
func encode(tr func(string) string, s string) (string, rune, bool) {
	for _, c := range s {
		if c != '.' && tr(string(c)) == "." {
			return "", c, false
		}
	}
	return tr(s), 0, true
}

func (r *Renderer) drawBlock(pdf *fpdf.Fpdf, tr func(string) string, page layout.Page, b layout.Block) error {
	f := b.Frame
	if len(b.Runs) == 0 {
		return nil
	}

	runs := make([]measured, len(b.Runs))
	for i, run := range b.Runs {
		text, bad, ok := encode(tr, run.Text)
		if !ok {
			return &UnencodableError{Panel: b.Panel, Text: run.Text, Rune: bad}
		}
		runs[i] = measured{run: run, text: text}
	}
	if f.W <= 0 || f.H <= 0 {
		return nil
	}

	var height float64
	for i := range runs {
		run := runs[i].run
		setFont(pdf, run)
		if pdf.Err() {
			return nil
		}
		text := runs[i].text
		n := max(len(pdf.SplitLines([]byte(text), f.W)), 1)
		runs[i].lines = n
		height += float64(n) * run.Style.LineHeight()
		if i < len(b.Runs)-1 {
			height += run.SpaceAfter
		}
	}
	if height > f.H {
		r.log.Warn("Text overflows its panel",
			zap.Int("serial", page.Serial),
			zap.Stringer("panel", b.Panel),
			zap.Float64("height_mm", height),
			zap.Float64("available_mm", f.H))
	}

	y := f.Y
	switch b.Anchor {
	case layout.AnchorMiddle:
		y += (f.H - height) / 2
	case layout.AnchorBottom:
		y += f.H - height
	}

	if f.Rotation != 0 {
		cx, cy := f.Center()
		pdf.TransformBegin()
		pdf.TransformRotate(float64(f.Rotation), cx, cy)
		defer pdf.TransformEnd()
	}
	for _, m := range runs {
		setFont(pdf, m.run)
		pdf.SetXY(f.X, y)
		pdf.MultiCell(f.W, m.run.Style.LineHeight(), m.text, "", string(m.run.Align), false)
		y = pdf.GetY() + m.run.SpaceAfter
	}
	return nil
}

func setFont(pdf *fpdf.Fpdf, run layout.Run) {
	pdf.SetFont(run.Style.Font, strings.ToUpper(run.Style.Style), run.Style.Size)
}
