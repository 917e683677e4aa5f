package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"paranoia/internal/config"
	"paranoia/internal/layout"
	"paranoia/internal/types"
)

func sampleAssignment() *types.Assignment {
	return &types.Assignment{
		TargetField: "Target",
		Fields:      []string{"Weapon"},
		Players:     []string{"Ana", "Björn", "Cyd"},
		Records: map[string]types.Record{
			"Ana":   {Serial: 1, Target: "Björn", Values: map[string]string{"Weapon": "spoon"}},
			"Björn": {Serial: 2, Target: "Cyd", Values: map[string]string{"Weapon": "rope"}},
			"Cyd":   {Serial: 0, Target: "Ana"},
		},
	}
}

func pagesFor(t *testing.T, cfg config.PrintConfig) []layout.Page {
	t.Helper()
	pages, err := layout.Layout(sampleAssignment(), cfg)
	require.NoError(t, err)
	return pages
}

func fpdfTranslator() func(string) string {
	return fpdf.New("P", "mm", "A5", "").UnicodeTranslatorFromDescriptor("")
}

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("<</Type /Page\n"))
}

func TestWrite(t *testing.T) {
	cfg := config.DefaultPrintConfig()
	cfg.PrintFoldLines = true

	var buf bytes.Buffer
	require.NoError(t, New(nil).Write(&buf, pagesFor(t, cfg)))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
	assert.Equal(t, 4, pageCount(out))
}

func TestWrite_PageSizes(t *testing.T) {
	for _, name := range []string{"A4", "A6", "Letter"} {
		t.Run(name, func(t *testing.T) {
			cfg := config.DefaultPrintConfig()
			cfg.PageSize = name
			cfg.PrintMargin = 5

			var buf bytes.Buffer
			require.NoError(t, New(nil).Write(&buf, pagesFor(t, cfg)))
			assert.Equal(t, 4, pageCount(buf.Bytes()))
		})
	}
}

func TestWrite_UnknownFont(t *testing.T) {
	cfg := config.DefaultPrintConfig()
	cfg.ValueFontName = "Comic Sans"

	var buf bytes.Buffer
	err := New(nil).Write(&buf, pagesFor(t, cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined font")
}

func TestWrite_RefusesUnprintableText(t *testing.T) {
	a := &types.Assignment{
		TargetField: "Target",
		Players:     []string{"Женя", "Zoë"},
		Records: map[string]types.Record{
			"Женя": {Serial: 0, Target: "Zoë"},
			"Zoë":  {Serial: 1, Target: "Женя"},
		},
	}
	pages, err := layout.Layout(a, config.DefaultPrintConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	err = New(nil).Write(&buf, pages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render card 0")

	var ue *UnencodableError
	require.True(t, errors.As(err, &ue), "want *UnencodableError, got %T", err)
	assert.Equal(t, layout.CoverBack, ue.Panel)
	assert.Equal(t, "Женя", ue.Text)
	assert.Equal(t, 'Ж', ue.Rune)
}

func TestEncode(t *testing.T) {
	tr := fpdfTranslator()
	tests := []struct {
		in  string
		ok  bool
		bad rune
	}{
		{in: "Zoë", ok: true},
		{in: "Mr. T...", ok: true},
		{in: "Björn", ok: true},
		{in: "Женя", bad: 'Ж'},
		{in: "李雷", bad: '李'},
		{in: "Łukasz", bad: 'Ł'},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			out, bad, ok := encode(tr, tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bad, bad)
			if ok {
				assert.NotEmpty(t, out)
			}
		})
	}
}

func TestWrite_NoPages(t *testing.T) {
	assert.Error(t, New(nil).Write(&bytes.Buffer{}, nil))
}

func TestWrite_WarnsOnOverflow(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cfg := config.DefaultPrintConfig()
	cfg.CoverFontSize = 200

	var buf bytes.Buffer
	require.NoError(t, New(zap.New(core)).Write(&buf, pagesFor(t, cfg)))

	warned := logs.FilterMessage("Text overflows its panel").All()
	require.Len(t, warned, 3)
	for _, e := range warned {
		assert.Equal(t, "cover-back", e.ContextMap()["panel"])
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cards.pdf")
	require.NoError(t, New(nil).WriteFile(path, pagesFor(t, config.DefaultPrintConfig())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))
}

func TestWriteFile_FailureLeavesNothing(t *testing.T) {
	cfg := config.DefaultPrintConfig()
	cfg.IDFontName = "Nope"
	path := filepath.Join(t.TempDir(), "cards.pdf")

	require.Error(t, New(nil).WriteFile(path, pagesFor(t, cfg)))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
