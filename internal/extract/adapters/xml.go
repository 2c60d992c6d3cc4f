package adapters

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/ppiankov/regulqa/internal/extract"
)

// XMLAdapter extracts requirement elements from XML specifications
type XMLAdapter struct {
	fallback Adapter
}

// NewXMLAdapter creates the XML adapter. Malformed documents are handed to
// fallback, which is normally the HTML adapter.
func NewXMLAdapter(fallback Adapter) *XMLAdapter {
	return &XMLAdapter{fallback: fallback}
}

// Name returns the adapter name
func (a *XMLAdapter) Name() string {
	return "xml"
}

// CanHandle accepts xml
func (a *XMLAdapter) CanHandle(ext string) bool {
	return ext == "xml"
}

// xmlFrame is one open element during the token walk
type xmlFrame struct {
	requirement bool
	own         strings.Builder // character data directly inside the element
	all         strings.Builder // character data of the whole subtree
}

// Extract walks the element tree. An element yields the text of its whole
// subtree when its name mentions req or spec, or when it holds character data
// of its own. Pure containers yield nothing.
func (a *XMLAdapter) Extract(data []byte) ([]string, error) {
	blocks, err := walkXML(data)
	if err != nil {
		if a.fallback == nil {
			return nil, err
		}
		return a.fallback.Extract(data)
	}
	return blocks, nil
}

func walkXML(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var (
		blocks []string
		stack  []*xmlFrame
		closed bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			stack = append(stack, &xmlFrame{
				requirement: strings.Contains(name, "req") || strings.Contains(name, "spec"),
			})
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string(t)
			stack[len(stack)-1].own.WriteString(text)
			for _, f := range stack {
				f.all.WriteString(" ")
				f.all.WriteString(text)
			}
		case xml.EndElement:
			frame := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if frame.requirement || strings.TrimSpace(frame.own.String()) != "" {
				if t := extract.Normalize(frame.all.String()); t != "" {
					blocks = append(blocks, t)
				}
			}
			if len(stack) == 0 {
				closed = true
			}
		}
	}

	if !closed {
		return nil, errors.New("xml: no root element")
	}

	return extract.DedupeStrings(blocks), nil
}
