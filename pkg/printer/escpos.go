package printer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

const (
	esc = 0x1B
	gs  = 0x1D
	lf  = 0x0A
)

type Align byte

const (
	AlignLeft   Align = 0
	AlignCenter Align = 1
	AlignRight  Align = 2
)

// Paper widths in characters
const (
	Width58mm = 32
	Width80mm = 48
)

// Document accumulates an ESC/POS job for a fixed-width receipt.
type Document struct {
	buf   bytes.Buffer
	width int
}

// NewDocument starts a job initialised for width characters per line
func NewDocument(width int) *Document {
	if width <= 0 {
		width = Width58mm
	}
	d := &Document{width: width}
	d.buf.Write([]byte{esc, '@'})
	return d
}

func (d *Document) Width() int { return d.width }

func (d *Document) Align(a Align) *Document {
	d.buf.Write([]byte{esc, 'a', byte(a)})
	return d
}

func (d *Document) Bold(on bool) *Document {
	var b byte
	if on {
		b = 1
	}
	d.buf.Write([]byte{esc, 'E', b})
	return d
}

// Large toggles double width and height
func (d *Document) Large(on bool) *Document {
	var size byte
	if on {
		size = 0x11
	}
	d.buf.Write([]byte{gs, '!', size})
	return d
}

// Line writes s, wrapped to the paper width
func (d *Document) Line(s string) *Document {
	for _, part := range wrap(s, d.width) {
		d.buf.WriteString(part)
		d.buf.WriteByte(lf)
	}
	return d
}

func (d *Document) Rule() *Document {
	d.buf.WriteString(strings.Repeat("-", d.width))
	d.buf.WriteByte(lf)
	return d
}

// Columns prints left and right on one line, truncating left so right
// always fits.
func (d *Document) Columns(left, right string) *Document {
	room := d.width - utf8.RuneCountInString(right) - 1
	left = truncate(left, room)
	pad := d.width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if pad < 1 {
		pad = 1
	}
	d.buf.WriteString(left)
	d.buf.WriteString(strings.Repeat(" ", pad))
	d.buf.WriteString(right)
	d.buf.WriteByte(lf)
	return d
}

func (d *Document) Feed(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(lf)
	}
	return d
}

func (d *Document) Cut() *Document {
	d.buf.Write([]byte{gs, 'V', 0x01})
	return d
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []rune
	for _, w := range words {
		word := []rune(w)
		for len(word) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(word[:width]))
			word = word[width:]
		}
		switch {
		case len(cur) == 0:
			cur = word
		case len(cur)+1+len(word) <= width:
			cur = append(append(cur, ' '), word...)
		default:
			lines = append(lines, string(cur))
			cur = word
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
