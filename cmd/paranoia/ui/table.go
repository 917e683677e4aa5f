package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"paranoia/internal/types"
)

// SimpleTable renders static rows with aligned columns.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{Title: title, Headers: headers}
}

func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2 // padding
		total += widths[i]
	}

	header := styles.Bold.Padding(0, 1)
	body := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, 0, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts = append(parts, style.Width(widths[i]).Render(cell))
		}
		return strings.Join(parts, sep)
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title) + "\n")
	}
	sb.WriteString(line(t.Headers, header) + "\n")
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)) + "\n")
	for _, row := range t.Rows {
		sb.WriteString(line(row, body) + "\n")
	}
	return sb.String()
}

// OrganizationTable lists every card by serial: player, target and the
// drawn field values. Skipped values show as "-".
func OrganizationTable(a *types.Assignment) *SimpleTable {
	headers := append([]string{"Serial", "Player", a.TargetField}, a.Fields...)
	t := NewSimpleTable("Organization "+a.ID.String(), headers)
	for _, p := range a.BySerial() {
		rec := a.Records[p]
		row := []string{strconv.Itoa(rec.Serial), p, rec.Target}
		for _, f := range a.Fields {
			v, ok := rec.Value(f)
			if !ok {
				v = "-"
			}
			row = append(row, v)
		}
		t.AddRow(row...)
	}
	return t
}
