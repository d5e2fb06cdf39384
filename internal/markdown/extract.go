package markdown

import "strings"

// ExtractCodeBlocks returns the trimmed bodies of every closed fence in text,
// separated by a blank line. Prose is dropped, and so is the content of an
// unterminated fence.
func ExtractCodeBlocks(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	for _, seg := range LexInline(text) {
		if seg.Kind != Code || !seg.Closed {
			continue
		}
		b.WriteString(strings.TrimSpace(seg.Text()))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// CodeSegments returns the code segments of text as Lex sees them,
// unterminated trailing fence included.
func CodeSegments(text string) []Segment {
	var out []Segment
	for _, seg := range Lex(text) {
		if seg.Kind == Code {
			out = append(out, seg)
		}
	}
	return out
}

// ReplaceCode swaps the body of the code segment that ended at endLine for
// code. Only that body changes: the rest of text is kept byte for byte, literal
// "\n" escapes included. It returns the new text and the segment's new end
// line, which moves when the line count changes. ok is false when no code
// segment ends at endLine, or when code contains a fence line.
func ReplaceCode(text string, endLine int, code string) (out string, newEnd int, ok bool) {
	if HasFence(code) {
		return text, endLine, false
	}
	starts, ends := lineSpans(text)

	for _, seg := range Lex(text) {
		if seg.Kind != Code || seg.EndLine != endLine {
			continue
		}
		newEnd = seg.StartLine + BodyLines(code)
		switch {
		case !seg.Closed:
			out = text[:starts[seg.StartLine]] + code
		case seg.StartLine == seg.EndLine:
			at := starts[seg.EndLine]
			out = text[:at] + code + "\n" + text[at:]
		default:
			out = text[:starts[seg.StartLine]] + code + text[ends[seg.EndLine-1]:]
		}
		return out, newEnd, true
	}
	return text, endLine, false
}

// HasFence reports whether any line of code, as Lex would split it, is a
// fence.
func HasFence(code string) bool {
	for _, line := range strings.Split(Normalize(code), "\n") {
		if IsFence(line) {
			return true
		}
	}
	return false
}

// BodyLines is the number of lines code occupies once lexed.
func BodyLines(code string) int {
	return len(strings.Split(Normalize(code), "\n"))
}

// lineSpans maps each line Lex sees in text to its byte range in text. A
// line ends at a newline or at a literal "\n" escape.
func lineSpans(text string) (starts, ends []int) {
	starts = []int{0}
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\n':
			ends = append(ends, i)
			starts = append(starts, i+1)
		case text[i] == '\\' && i+1 < len(text) && text[i+1] == 'n':
			ends = append(ends, i)
			starts = append(starts, i+2)
			i++
		}
	}
	ends = append(ends, len(text))
	return starts, ends
}
