package board

// adjustSelection returns the cursor after the row at view position removed
// was taken out of a view that now has n rows.
//
//   - an empty view clears the selection
//   - no selection stays no selection
//   - a cursor below the removed row moves up by one
//   - a cursor left at or past the end lands on the last row
func adjustSelection(sel int, ok bool, removed int, n int) (int, bool) {
	if n <= 0 || !ok {
		return 0, false
	}
	if sel > removed {
		sel--
	}
	if sel >= n {
		sel = n - 1
	}
	if sel < 0 {
		sel = 0
	}
	return sel, true
}

func (b *Board) clearSelection() {
	b.selected = 0
	b.hasSel = false
}

// clamp keeps the cursor inside the filtered view.
func (b *Board) clamp() {
	if !b.hasSel {
		return
	}
	n := b.VisibleLen()
	if n == 0 {
		b.clearSelection()
		return
	}
	if b.selected >= n {
		b.selected = n - 1
	}
	if b.selected < 0 {
		b.selected = 0
	}
}

// keepSelection runs fn and then points the cursor back at the entry it
// was on, which may have moved in the filtered view (an edited title can
// enter or leave the filter). If that entry is no longer visible the cursor
// is only clamped.
func (b *Board) keepSelection(fn func()) {
	cur, ok := b.currentIndex()
	fn()
	if !ok {
		b.clamp()
		return
	}
	for p, si := range b.visible() {
		if si == cur {
			b.selected = p
			return
		}
	}
	b.clamp()
}
