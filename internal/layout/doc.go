// Package layout computes where each piece of text goes on the printed
// cards. It never draws; it emits page descriptors for a renderer.
//
// Each page is one face of a portrait sheet split into four quadrants:
//
//	+---------+---------+
//	|  TL     |  TR     |   TL upper half: id label (CoverFront)
//	|  cover  | content |   TL lower half: player name, rotated 180 (CoverBack)
//	+---------+---------+   TR: target and field values (Content)
//	|  BL     |  BR     |   BL, BR: left empty (guards)
//	|  guard  |  guard  |
//	+---------+---------+
//
// The physical handling is fixed:
//
//  1. Print double-sided, flipping on the short edge. A face's top half
//     backs onto the neighbouring face's bottom half, so every card has
//     only guard quadrants behind it.
//  2. Cut along the horizontal midline. The top strip is the card.
//  3. Fold the right half (content) behind the left half.
//  4. Fold the lower half of that packet behind the upper half.
//
// The folded card shows the upper half of TL on its front and the lower half
// of TL on its back. The second fold turns the lower half upside down, which
// is why the name is printed rotated by 180 degrees. The content quadrant
// ends up face to face with itself inside the packet.
package layout
