package jsast

import (
	"bytes"
)

// Print serializes a module.
//
// Parsed nodes are copied from the source, including the whitespace and
// comments between their children, so an untouched module prints exactly as
// it was read. Synthetic nodes render their tokens separated by single
// spaces, except before , ; : ( ) and after (. Raw leaves are copied with no
// added spacing. A synthetic top-level item without an origin is printed on
// its own line.
func Print(m *Module) []byte {
	p := &printer{src: m.Source}
	root := m.Root
	if root == nil {
		return append([]byte(nil), m.Source...)
	}

	start, end := root.Span.Start, root.Span.End
	if int(start) <= len(p.src) {
		p.buf.Write(p.src[:start])
	}
	p.node(root, true)
	if int(end) < len(p.src) {
		p.buf.Write(p.src[end:])
	}
	return p.buf.Bytes()
}

// PrintNode renders a single node. Parsed nodes need the module source.
func PrintNode(n *Node, source []byte) []byte {
	p := &printer{src: source}
	p.node(n, false)
	return p.buf.Bytes()
}

type printer struct {
	src []byte
	buf bytes.Buffer
}

func (p *printer) node(n *Node, topLevel bool) {
	if n.Synthetic {
		p.buf.Write(p.render(n))
		return
	}
	if len(n.Children) == 0 {
		p.buf.Write(p.slice(n.Span.Start, n.Span.End))
		return
	}

	cursor := n.Span.Start
	for _, c := range n.Children {
		if !c.Span.Valid() {
			if topLevel && c.Synthetic {
				p.newItem(c, cursor)
				continue
			}
			p.node(c, false)
			continue
		}
		if c.Span.Start > cursor {
			p.buf.Write(p.slice(cursor, c.Span.Start))
		}
		p.node(c, false)
		if c.Span.End > cursor {
			cursor = c.Span.End
		}
	}
	if n.Span.End > cursor {
		p.buf.Write(p.slice(cursor, n.Span.End))
	}
}

// newItem writes a synthetic top-level item on a line of its own. The source
// at next follows it; when that already starts a new line no newline is
// added.
func (p *printer) newItem(n *Node, next uint32) {
	if !p.atLineStart() {
		p.buf.WriteByte('\n')
	}
	p.node(n, false)
	if rest := p.slice(next, uint32(len(p.src))); !bytes.HasPrefix(rest, []byte("\n")) &&
		!bytes.HasPrefix(rest, []byte("\r\n")) {
		p.buf.WriteByte('\n')
	}
}

// atLineStart reports whether nothing but a byte order mark has been
// written on the current line.
func (p *printer) atLineStart() bool {
	b := p.buf.Bytes()
	return len(b) == 0 || b[len(b)-1] == '\n' || bytes.Equal(b, bom)
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// render prints a synthetic node into its own buffer.
func (p *printer) render(n *Node) []byte {
	if !n.Synthetic {
		sub := &printer{src: p.src}
		sub.node(n, false)
		return sub.buf.Bytes()
	}
	if len(n.Children) == 0 {
		return []byte(n.Text)
	}

	var out []byte
	afterRaw := false
	for _, c := range n.Children {
		text := p.render(c)
		if len(text) == 0 {
			continue
		}
		raw := c.Kind == KindRaw
		if len(out) > 0 && !raw && !afterRaw && needsSpace(out[len(out)-1], text[0]) {
			out = append(out, ' ')
		}
		out = append(out, text...)
		afterRaw = raw
	}
	return out
}

func (p *printer) slice(start, end uint32) []byte {
	if int(end) > len(p.src) || start > end {
		return nil
	}
	return p.src[start:end]
}

func needsSpace(prev, next byte) bool {
	switch next {
	case ',', ';', ':', '(', ')':
		return false
	}
	return prev != '('
}
