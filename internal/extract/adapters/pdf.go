package adapters

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/regulqa/internal/extract"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// kernWordGap is the TJ adjustment, in thousandths of an em, treated as a space
const kernWordGap = -200

// ErrNoText is returned for PDFs without any extractable text layer
var ErrNoText = errors.New("no text content found in PDF")

// PDFAdapter extracts the text layer of PDF documents page by page
type PDFAdapter struct{}

// NewPDFAdapter creates the PDF adapter
func NewPDFAdapter() *PDFAdapter {
	return &PDFAdapter{}
}

// Name returns the adapter name
func (a *PDFAdapter) Name() string {
	return "pdf"
}

// CanHandle accepts pdf
func (a *PDFAdapter) CanHandle(ext string) bool {
	return ext == "pdf"
}

// Extract returns one block per page that carries text
func (a *PDFAdapter) Extract(data []byte) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		if text := ContentStreamText(content); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, ErrNoText
	}
	return pages, nil
}

// ContentStreamText recovers the shown strings of a page content stream.
// String operands are emitted by the show operators (Tj, TJ, ' and ");
// positioning operators insert a word break.
func ContentStreamText(content []byte) string {
	var (
		out     strings.Builder
		pending []string
	)

	wordBreak := func() {
		if out.Len() > 0 {
			out.WriteByte(' ')
		}
	}

	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case c == '(':
			s, next := readLiteral(content, i)
			pending = append(pending, s)
			i = next
		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case c == '<' && i+1 < len(content) && content[i+1] != '<':
			// Hex strings need the font's encoding; skip them
			for i < len(content) && content[i] != '>' {
				i++
			}
			i++
		case isPDFDelimiter(c) || isPDFSpace(c):
			i++
		default:
			start := i
			for i < len(content) && !isPDFDelimiter(content[i]) && !isPDFSpace(content[i]) {
				i++
			}
			switch string(content[start:i]) {
			case "Tj", "TJ":
				out.WriteString(strings.Join(pending, ""))
				pending = pending[:0]
			case "'", "\"":
				wordBreak()
				out.WriteString(strings.Join(pending, ""))
				pending = pending[:0]
			case "Td", "TD", "T*", "Tm", "ET", "BT":
				wordBreak()
				pending = pending[:0]
			default:
				tok := content[start:i]
				if !isOperand(tok) {
					pending = pending[:0]
					break
				}
				// A wide negative kern inside a TJ array separates words
				if len(pending) > 0 {
					if v, err := strconv.ParseFloat(string(tok), 64); err == nil && v <= kernWordGap {
						pending = append(pending, " ")
					}
				}
			}
		}
	}

	return extract.Normalize(out.String())
}

// readLiteral decodes the string literal starting at content[start] == '('
// and returns it with the index just past the closing parenthesis
func readLiteral(content []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for ; i < len(content); i++ {
		c := content[i]
		switch {
		case c == '\\' && i+1 < len(content):
			i++
			switch e := content[i]; e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\n', '\r':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && i+1 < len(content) && content[i+1] >= '0' && content[i+1] <= '7'; k++ {
						i++
						val = val*8 + int(content[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(e)
				}
			}
		case c == '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), i
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isOperand reports whether tok is a number, which may sit between the
// strings of a TJ array
func isOperand(tok []byte) bool {
	for _, c := range tok {
		if (c < '0' || c > '9') && c != '.' && c != '-' && c != '+' {
			return false
		}
	}
	return len(tok) > 0
}
