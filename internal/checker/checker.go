// Package checker is a demo consumer of the source/diag core: it walks one
// registered entry with a forward cursor, flags unbalanced delimiters and
// whitespace problems, and reports findings through a diag.Reporter. It is
// deliberately not a tokenizer, just enough traversal to exercise cursor,
// span and diagnostic plumbing end to end.
package checker

import (
	"fmt"

	"srcmark/internal/diag"
	"srcmark/internal/source"
)

var matching = map[rune]rune{')': '(', ']': '[', '}': '{'}

type openDelim struct {
	r    rune
	span source.Span
}

// Check scans the entry and reports findings. It fails only on handle
// errors (foreign entry identity); findings themselves go to the reporter.
func Check(m *source.SourceMap, id source.EntryID, r diag.Reporter) error {
	cur, err := m.Cursor(id)
	if err != nil {
		return err
	}

	var stack []openDelim
	var wsStart *source.Offset // start of the current whitespace run
	inIndent := true
	indentSawSpace := false

	for {
		at := cur.Offset()
		ch, ok := cur.Next()
		if !ok {
			break
		}

		switch ch {
		case ' ', '\t':
			if wsStart == nil {
				start := at
				wsStart = &start
			}
			if inIndent {
				if ch == '\t' && indentSawSpace {
					sp, err := cur.SpanFrom(at)
					if err != nil {
						return err
					}
					r.Report(diag.NewWarning("tab after space in indentation").WithSpan(sp))
				}
				if ch == ' ' {
					indentSawSpace = true
				}
			}
			continue

		case '\n':
			if wsStart != nil {
				sp, err := source.NewSpan(*wsStart, at)
				if err != nil {
					return err
				}
				r.Report(diag.NewWarning("trailing whitespace").WithSpan(sp))
			}
			wsStart = nil
			inIndent = true
			indentSawSpace = false
			continue
		}

		wsStart = nil
		inIndent = false

		switch ch {
		case '(', '[', '{':
			sp, err := cur.SpanFrom(at)
			if err != nil {
				return err
			}
			stack = append(stack, openDelim{r: ch, span: sp})

		case ')', ']', '}':
			sp, err := cur.SpanFrom(at)
			if err != nil {
				return err
			}
			if len(stack) == 0 {
				r.Report(diag.NewError(fmt.Sprintf("unmatched closing %q", ch)).WithSpan(sp))
				break
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.r != matching[ch] {
				r.Report(diag.NewError(fmt.Sprintf("mismatched closing %q", ch)).
					WithSpan(sp).
					WithContext(top.span).
					WithNoteAt(fmt.Sprintf("opened with %q here", top.r), top.span))
			}
		}
	}

	if wsStart != nil {
		sp, err := source.NewSpan(*wsStart, cur.Offset())
		if err != nil {
			return err
		}
		r.Report(diag.NewWarning("trailing whitespace").WithSpan(sp))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		r.Report(diag.NewError(fmt.Sprintf("unclosed %q", stack[i].r)).WithSpan(stack[i].span))
	}
	return nil
}
