// Package markdown splits AI-generated test text into prose and fenced code
// segments and renders them.
//
// Two lexers produce the same Segment type. Lex is line-oriented: a fence is
// a line whose trimmed content starts with three backticks, and an
// unterminated trailing fence still yields a code segment (Closed=false).
// LexInline finds fences anywhere in the text and only ever yields closed
// ones. ExtractCodeBlocks is built on LexInline, Blocks on Lex.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

const fence = "```"

// Kind tells prose and code apart.
type Kind int

const (
	Prose Kind = iota
	Code
)

func (k Kind) String() string {
	if k == Code {
		return "code"
	}
	return "prose"
}

// Segment is a contiguous run of prose or the body of one fence.
type Segment struct {
	Kind   Kind
	Lines  []string
	Lang   string // info string of the opening fence, code only
	Closed bool   // code only: a closing fence was seen

	// StartLine is the index of the first body line. EndLine is the index
	// of the line that ended the segment: the next opening fence for prose,
	// the closing fence for code, or the line count for trailing segments.
	StartLine int
	EndLine   int

	// Key identifies the segment within one text: "text-<n>", "code-<n>",
	// "last-text" or "last-code".
	Key string
}

// Text joins the segment's lines.
func (s Segment) Text() string {
	return strings.Join(s.Lines, "\n")
}

// Normalize turns literal "\n" escape sequences into newlines. Backends
// sometimes double-escape their markdown.
func Normalize(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}

// IsFence reports whether line opens or closes a fence.
func IsFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), fence)
}

// Lex splits text line by line. The text is normalized first.
func Lex(text string) []Segment {
	lines := strings.Split(Normalize(text), "\n")

	var (
		segs   []Segment
		buf    []string
		inCode bool
		lang   string
		start  int
	)

	for i, line := range lines {
		if !IsFence(line) {
			buf = append(buf, line)
			continue
		}

		if !inCode {
			if len(buf) > 0 {
				segs = append(segs, Segment{
					Kind:      Prose,
					Lines:     buf,
					StartLine: start,
					EndLine:   i,
					Key:       fmt.Sprintf("text-%d", i),
				})
			}
			lang = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "`"))
			inCode = true
		} else {
			// A closing fence emits a segment even when the body is empty.
			segs = append(segs, Segment{
				Kind:      Code,
				Lines:     buf,
				Lang:      lang,
				Closed:    true,
				StartLine: start,
				EndLine:   i,
				Key:       fmt.Sprintf("code-%d", i),
			})
			inCode = false
			lang = ""
		}
		buf = nil
		start = i + 1
	}

	if len(buf) > 0 {
		seg := Segment{
			Kind:      Prose,
			Lines:     buf,
			StartLine: start,
			EndLine:   len(lines),
			Key:       "last-text",
		}
		if inCode {
			seg.Kind = Code
			seg.Lang = lang
			seg.Key = "last-code"
		}
		segs = append(segs, seg)
	}

	return segs
}

var inlineFence = regexp.MustCompile("(?s)```([a-zA-Z]*)\n(.*?)```")

// LexInline finds fences anywhere, not only at line starts: an opening
// backtick triple, an optional language tag, a newline, then everything up to
// the next backtick triple. Unterminated fences stay in the surrounding prose.
func LexInline(text string) []Segment {
	var segs []Segment
	last := 0

	lineAt := func(off int) int { return strings.Count(text[:off], "\n") }

	addProse := func(from, to int) {
		if from >= to {
			return
		}
		chunk := text[from:to]
		end := lineAt(to)
		segs = append(segs, Segment{
			Kind:      Prose,
			Lines:     strings.Split(chunk, "\n"),
			StartLine: lineAt(from),
			EndLine:   end,
			Key:       fmt.Sprintf("text-%d", end),
		})
	}

	for _, m := range inlineFence.FindAllStringSubmatchIndex(text, -1) {
		addProse(last, m[0])
		end := lineAt(m[1])
		segs = append(segs, Segment{
			Kind:      Code,
			Lines:     strings.Split(text[m[4]:m[5]], "\n"),
			Lang:      text[m[2]:m[3]],
			Closed:    true,
			StartLine: lineAt(m[4]),
			EndLine:   end,
			Key:       fmt.Sprintf("code-%d", end),
		})
		last = m[1]
	}
	addProse(last, len(text))

	return segs
}
