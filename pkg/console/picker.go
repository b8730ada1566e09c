package console

import "strings"

// picker is a cursor over a list of items.
type picker[T any] struct {
	items  []T
	cursor int
}

func newPicker[T any](items []T) picker[T] {
	return picker[T]{items: items}
}

func (p *picker[T]) next() {
	if len(p.items) == 0 {
		return
	}
	p.cursor = (p.cursor + 1) % len(p.items)
}

func (p *picker[T]) prev() {
	if len(p.items) == 0 {
		return
	}
	p.cursor--
	if p.cursor < 0 {
		p.cursor = len(p.items) - 1
	}
}

func (p *picker[T]) selected() (T, bool) {
	var zero T
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return zero, false
	}
	return p.items[p.cursor], true
}

// render draws one line per item, marking the cursor, and shows at most
// height lines around it.
func (p *picker[T]) render(label func(T) string, height int) string {
	if len(p.items) == 0 {
		return subtitleStyle.Render("  (none)")
	}
	start, end := 0, len(p.items)
	if height > 0 && len(p.items) > height {
		start = p.cursor - height/2
		if start < 0 {
			start = 0
		}
		end = start + height
		if end > len(p.items) {
			end = len(p.items)
			start = end - height
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i == p.cursor {
			b.WriteString(selectedStyle.Render(label(p.items[i])))
		} else {
			b.WriteString(itemStyle.Render(label(p.items[i])))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
