// Package layout places card images onto printable pages.
//
// # Overview
//
// Cards are placed at their exact physical size, in input order, using
// greedy row-major shelf packing: a row fills left to right until the next
// card would cross the right margin, then a new row starts below the tallest
// card of the previous one. When a row would cross the bottom margin a new
// page begins. There is no rotation, no reordering and no backtracking.
//
// The algorithm is a fold over the input. [Packer.Step] takes a
// [PackerState] and one [SourceImage] and returns the next state;
// [Packer.Finish] closes the last page. [Pack] wires the two together:
//
//	l, err := layout.Pack(images, layout.Settings{
//	    PageSize: geometry.A4,
//	    Margin:   10,
//	    Spacing:  5,
//	})
//
// # Overflow
//
// A card larger than the usable page area is still placed at the cursor and
// may run past the margin. Statistics for such layouts can report a
// utilization above 100%.
//
// # Derived views
//
// [ComputeStats], [CutInstructions] and [AlignmentInfo] read a [Layout]
// without modifying it. [ValidateImages] checks input before packing and
// reports findings rather than failing.
package layout
