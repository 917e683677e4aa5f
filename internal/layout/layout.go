package layout

import (
	"fmt"
	"sort"
	"strconv"

	"paranoia/internal/config"
	"paranoia/internal/types"
)

// Role says what a run of text is, which selects its style.
type Role int

const (
	RoleCover Role = iota
	RoleLabel
	RoleValue
	RoleID
)

// Align is the horizontal alignment of a run within its frame.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
)

// Anchor is where a block's runs sit vertically within the frame.
type Anchor int

const (
	AnchorTop Anchor = iota
	AnchorMiddle
	AnchorBottom
)

// Run is a paragraph of text. Long runs wrap within the frame width.
type Run struct {
	Role       Role
	Text       string
	Style      config.TextStyle
	Align      Align
	SpaceAfter float64 // mm below the run
}

// Block is a stack of runs inside one panel frame.
type Block struct {
	Panel  Panel
	Frame  Frame
	Anchor Anchor
	Runs   []Run
}

// LineKind distinguishes guide lines.
type LineKind int

const (
	CutLine LineKind = iota
	FoldLine
)

// Line is a guide drawn across the page.
type Line struct {
	Kind           LineKind
	X1, Y1, X2, Y2 float64
}

// Page describes one printed face. Blank pages carry nothing.
type Page struct {
	Blank  bool
	Serial int
	Player string
	Size   config.PageSize
	Blocks []Block
	Lines  []Line
}

// Option tunes Layout.
type Option func(*options)

type options struct {
	only []int
}

// Only restricts the output to the cards with the given serials. The
// leading blank page is always kept.
func Only(serials ...int) Option {
	return func(o *options) {
		o.only = append(o.only, serials...)
	}
}

// Layout produces the printable pages for an assignment: a blank guard page
// followed by one card per player in serial order.
func Layout(a *types.Assignment, cfg config.PrintConfig, opts ...Option) ([]Page, error) {
	if a == nil || a.Len() == 0 {
		return nil, fmt.Errorf("layout: empty assignment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	order := a.BySerial()
	if len(o.only) > 0 {
		var err error
		if order, err = selectSerials(a, order, o.only); err != nil {
			return nil, err
		}
	}

	size := cfg.Page()
	pages := make([]Page, 0, len(order)+1)
	pages = append(pages, Page{Blank: true, Serial: -1, Size: size})
	for _, player := range order {
		pages = append(pages, card(a, player, cfg, size))
	}
	return pages, nil
}

func selectSerials(a *types.Assignment, order []string, serials []int) ([]string, error) {
	want := make(map[int]bool, len(serials))
	for _, s := range serials {
		want[s] = true
	}
	out := make([]string, 0, len(want))
	for _, p := range order {
		if want[a.Records[p].Serial] {
			out = append(out, p)
			delete(want, a.Records[p].Serial)
		}
	}
	if len(want) > 0 {
		missing := make([]int, 0, len(want))
		for s := range want {
			missing = append(missing, s)
		}
		sort.Ints(missing)
		return nil, fmt.Errorf("layout: no card with serial %v (have 0 to %d)", missing, a.Len()-1)
	}
	return out, nil
}

// IDLabel is the serial line printed on the cover and the content panel.
func IDLabel(cfg config.PrintConfig, serial int) string {
	return cfg.IDPrefix + strconv.Itoa(serial)
}

func card(a *types.Assignment, player string, cfg config.PrintConfig, size config.PageSize) Page {
	rec := a.Records[player]
	margin := cfg.PrintMargin
	id := Run{Role: RoleID, Text: IDLabel(cfg, rec.Serial), Style: cfg.ID(), Align: AlignCenter}

	page := Page{
		Serial: rec.Serial,
		Player: player,
		Size:   size,
		Blocks: []Block{
			{
				Panel:  CoverFront,
				Frame:  Locate(CoverFront, size, margin),
				Anchor: AnchorMiddle,
				Runs:   []Run{id},
			},
			{
				Panel:  CoverBack,
				Frame:  Locate(CoverBack, size, margin),
				Anchor: AnchorMiddle,
				Runs:   []Run{{Role: RoleCover, Text: player, Style: cfg.Cover(), Align: AlignCenter}},
			},
			{
				Panel:  Content,
				Frame:  Locate(Content, size, margin),
				Anchor: AnchorTop,
				Runs:   contentRuns(a, rec, cfg),
			},
			{
				Panel:  Content,
				Frame:  Locate(Content, size, margin),
				Anchor: AnchorBottom,
				Runs:   []Run{id},
			},
		},
	}
	if cfg.PrintFoldLines {
		page.Lines = guides(size)
	}
	return page
}

// contentRuns lists the target first, then every field that is set, as
// label/value pairs.
func contentRuns(a *types.Assignment, rec types.Record, cfg config.PrintConfig) []Run {
	label, value := cfg.Field(), cfg.Value()
	gap := value.Size * config.PtToMM / 2

	pair := func(name, v string) []Run {
		return []Run{
			{Role: RoleLabel, Text: name, Style: label, Align: AlignLeft},
			{Role: RoleValue, Text: v, Style: value, Align: AlignLeft, SpaceAfter: gap},
		}
	}

	runs := pair(a.TargetField, rec.Target)
	for _, f := range a.Fields {
		if v, ok := rec.Value(f); ok {
			runs = append(runs, pair(f, v)...)
		}
	}
	return runs
}

func guides(size config.PageSize) []Line {
	return []Line{
		{Kind: CutLine, X1: 0, Y1: size.H / 2, X2: size.W, Y2: size.H / 2},
		{Kind: FoldLine, X1: size.W / 2, Y1: 0, X2: size.W / 2, Y2: size.H / 2},
		{Kind: FoldLine, X1: 0, Y1: size.H / 4, X2: size.W, Y2: size.H / 4},
	}
}
