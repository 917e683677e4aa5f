package layout

import "paranoia/internal/config"

// Quadrant is one quarter of a page face.
type Quadrant int

const (
	TopLeft Quadrant = iota
	TopRight
	BottomLeft
	BottomRight
)

func (q Quadrant) String() string {
	switch q {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// Panel is a logical region of a card.
type Panel int

const (
	CoverFront Panel = iota // outside of the folded card, id label
	CoverBack               // outside of the folded card, player name
	Content                 // inside, revealed by unfolding
	GuardLeft               // backs the neighbouring card
	GuardRight
)

// Panels lists every panel in a stable order.
var Panels = []Panel{CoverFront, CoverBack, Content, GuardLeft, GuardRight}

func (p Panel) String() string {
	switch p {
	case CoverFront:
		return "cover-front"
	case CoverBack:
		return "cover-back"
	case Content:
		return "content"
	case GuardLeft:
		return "guard-left"
	case GuardRight:
		return "guard-right"
	default:
		return "unknown"
	}
}

type half int

const (
	whole half = iota
	upper
	lower
)

type placement struct {
	quadrant Quadrant
	half     half
	rotation int // degrees, applied about the frame centre
}

// placements is the fold transform: the only place that knows which
// quadrant and orientation each panel gets.
var placements = map[Panel]placement{
	CoverFront: {TopLeft, upper, 0},
	CoverBack:  {TopLeft, lower, 180},
	Content:    {TopRight, whole, 0},
	GuardLeft:  {BottomLeft, whole, 0},
	GuardRight: {BottomRight, whole, 0},
}

// Frame is a rectangle on the page in millimetres, from the top-left corner.
type Frame struct {
	Quadrant Quadrant
	X, Y     float64
	W, H     float64
	Rotation int
}

// Center returns the rotation pivot.
func (f Frame) Center() (float64, float64) {
	return f.X + f.W/2, f.Y + f.H/2
}

// Locate maps a panel to its frame on a page. Edges on the page border are
// inset by margin, edges on a cut or fold line by half of it.
func Locate(p Panel, size config.PageSize, margin float64) Frame {
	pl := placements[p]
	qw, qh := size.W/2, size.H/2

	x, y := 0.0, 0.0
	if pl.quadrant == TopRight || pl.quadrant == BottomRight {
		x = qw
	}
	if pl.quadrant == BottomLeft || pl.quadrant == BottomRight {
		y = qh
	}
	w, h := qw, qh
	switch pl.half {
	case upper:
		h = qh / 2
	case lower:
		h = qh / 2
		y += qh / 2
	}

	inset := func(onBorder bool) float64 {
		if onBorder {
			return margin
		}
		return margin / 2
	}
	left := inset(x == 0)
	right := inset(x+w >= size.W)
	top := inset(y == 0)
	bottom := inset(y+h >= size.H)

	return Frame{
		Quadrant: pl.quadrant,
		X:        x + left,
		Y:        y + top,
		W:        max(w-left-right, 0),
		H:        max(h-top-bottom, 0),
		Rotation: pl.rotation,
	}
}
