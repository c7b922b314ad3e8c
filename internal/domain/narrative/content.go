package narrative

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyContent is returned when the provider answered with no segments.
var ErrEmptyContent = errors.New("empty content")

type contentKind int

const (
	kindNone contentKind = iota
	kindText
	kindSegments
	kindSegment
)

// Segment is one typed block of a provider answer.
type Segment struct {
	Type string  `json:"type,omitempty"`
	Text *string `json:"text,omitempty"`

	raw json.RawMessage
}

// Content is the provider's answer payload. It is exactly one of a plain
// string, a sequence of values, or a single segment.
type Content struct {
	kind     contentKind
	text     string
	segments []Content
	segment  Segment
}

// TextContent wraps an already-unwrapped answer.
func TextContent(s string) Content {
	return Content{kind: kindText, text: s}
}

// SegmentContent wraps a single typed segment.
func SegmentContent(typ, text string) Content {
	return Content{kind: kindSegment, segment: Segment{Type: typ, Text: &text}}
}

// SequenceContent wraps an ordered list of values.
func SequenceContent(items ...Content) Content {
	return Content{kind: kindSegments, segments: items}
}

// UnmarshalJSON decodes any of the three shapes.
func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("decode content: %w", ErrEmptyContent)
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode content string: %w", err)
		}
		*c = TextContent(s)
	case '[':
		var items []Content
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode content sequence: %w", err)
		}
		*c = Content{kind: kindSegments, segments: items}
	case '{':
		var seg Segment
		if err := json.Unmarshal(data, &seg); err != nil {
			return fmt.Errorf("decode content segment: %w", err)
		}
		seg.raw = append(json.RawMessage(nil), data...)
		*c = Content{kind: kindSegment, segment: seg}
	default:
		*c = TextContent(string(data))
	}
	return nil
}

// Text unwraps the answer: a sequence yields its first element, a segment
// with a text attribute yields that text, anything else is its own text.
func (c Content) Text() (string, error) {
	switch c.kind {
	case kindText:
		return c.text, nil
	case kindSegments:
		if len(c.segments) == 0 {
			return "", ErrEmptyContent
		}
		return c.segments[0].Text()
	case kindSegment:
		if c.segment.Text != nil {
			return *c.segment.Text, nil
		}
		if len(c.segment.raw) > 0 {
			return string(c.segment.raw), nil
		}
		return c.segment.Type, nil
	default:
		return "", ErrEmptyContent
	}
}

const (
	artifactPrefix = "TextBlock(text='"
	artifactSuffix = "', type='text')"
)

// Clean strips leaked content-block wrappers from s. Removal repeats until
// nothing changes, so Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	for {
		out := strings.ReplaceAll(s, artifactPrefix, "")
		out = strings.ReplaceAll(out, artifactSuffix, "")
		if out == s {
			return out
		}
		s = out
	}
}
