package color

import "regexp"

// inlineTag matches "{RRGGBB}" colour switches inside a message body
var inlineTag = regexp.MustCompile(`\{([0-9a-fA-F]{6})\}`)

// Segment is a run of text drawn in one colour. A nil Color means "use the default".
type Segment struct {
	Text  string
	Color *RGB
}

// ParseInline splits text on "{RRGGBB}" tags. Text before the first tag uses def,
// every tag switches the colour for the text after it, and empty runs are dropped.
//
// ParseInline does not decide whether a message may carry markup. Callers must only
// pass bodies from trusted messages.
func ParseInline(text string, def *RGB) []Segment {
	var segments []Segment
	current := def

	push := func(chunk string) {
		if chunk == "" {
			return
		}
		segments = append(segments, Segment{Text: chunk, Color: current})
	}

	last := 0
	for _, m := range inlineTag.FindAllStringSubmatchIndex(text, -1) {
		push(text[last:m[0]])

		if c, ok := HexToRGB(text[m[2]:m[3]]); ok {
			current = c.Ptr()
		}
		last = m[1]
	}
	push(text[last:])

	return segments
}

// Literal wraps text as a single segment without interpreting any markup
func Literal(text string, c *RGB) []Segment {
	if text == "" {
		return nil
	}
	return []Segment{{Text: text, Color: c}}
}
