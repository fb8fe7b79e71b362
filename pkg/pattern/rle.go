package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

const rleLineWidth = 70

// rleWriter accumulates run-length tokens and wraps lines.
type rleWriter struct {
	sb      strings.Builder
	lineLen int
}

func (w *rleWriter) token(n int, tag string) {
	if n <= 0 {
		return
	}
	tok := tag
	if n > 1 {
		tok = strconv.Itoa(n) + tag
	}
	if w.lineLen+len(tok) > rleLineWidth {
		w.sb.WriteByte('\n')
		w.lineLen = 0
	}
	w.sb.WriteString(tok)
	w.lineLen += len(tok)
}

func rleTag(v uint8, states int) string {
	if states <= 2 {
		if v == 0 {
			return "b"
		}
		return "o"
	}
	if v == 0 {
		return "."
	}
	if v <= 24 {
		return string(rune('A' + v - 1))
	}
	// Extended states use a p..y prefix followed by A..X.
	v -= 25
	return string(rune('p'+v/24)) + string(rune('A'+v%24))
}

// ToRLE renders the live content in Golly's RLE format with a size and rule
// header.
func (p *Pattern) ToRLE() string {
	g, _ := p.snapshot()
	states := p.States()

	w := &rleWriter{}
	fmt.Fprintf(&w.sb, "x = %d, y = %d, rule = %s\n", g.W, g.H, p.RuleString())

	pendingRows := 0
	for y := 0; y < g.H; y++ {
		row := g.Row(y)
		end := len(row)
		for end > 0 && row[end-1] == 0 {
			end--
		}
		if end == 0 {
			pendingRows++
			continue
		}
		if y > 0 {
			w.token(pendingRows+1, "$")
		}
		pendingRows = 0
		for x := 0; x < end; {
			v := row[x]
			run := 1
			for x+run < end && row[x+run] == v {
				run++
			}
			w.token(run, rleTag(v, states))
			x += run
		}
	}
	w.token(1, "!")
	w.sb.WriteByte('\n')
	return w.sb.String()
}
