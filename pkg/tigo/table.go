package tigo

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// markerClass tags the data tables on the CCA's CGI pages. The pages use
// tables for navigation and layout too; only list_tb tables carry rows.
const markerClass = "list_tb"

// placeholder is what the CCA renders for cells it has no value for.
const placeholder = "n/a"

// tableScanner walks an HTML document and reports the cells of marker-class
// tables by 1-based column position. The markup is positional: column
// indices are the only schema these pages have.
//
// The first non-empty, non-placeholder text inside each cell is delivered
// exactly once; the device sometimes wraps a value in nested elements and
// the wrapping must not multiply it.
type tableScanner struct {
	// OnCell receives (column, text) for each populated cell.
	OnCell func(col int, text string)
	// OnRowEnd fires at </tr> whenever the row contained at least one cell,
	// populated or not.
	OnRowEnd func()
	// Strict surfaces tokenizer errors instead of swallowing them. The CCA
	// emits sloppy markup, so page reads scan lenient; Strict exists to make
	// that leniency a visible choice rather than ambient behavior.
	Strict bool
}

func (s *tableScanner) Scan(r io.Reader) error {
	z := html.NewTokenizer(r)
	active := false // inside a marker-class table
	depth := 0      // table nesting below the active table
	col := 0
	cellDone := true
	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if err == io.EOF || !s.Strict {
				return nil
			}
			return err
		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "table":
				if active {
					depth++
				} else if attrVal(tok, "class") == markerClass {
					active = true
				}
			case "td":
				if active && depth == 0 {
					col++
					cellDone = false
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "table":
				if !active {
					break
				}
				if depth > 0 {
					depth--
				} else {
					active = false
					col = 0
					cellDone = true
				}
			case "tr":
				if active && depth == 0 && col > 0 {
					if s.OnRowEnd != nil {
						s.OnRowEnd()
					}
					col = 0
					cellDone = true
				}
			}
		case html.TextToken:
			if !active || col == 0 || cellDone {
				break
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" || text == placeholder {
				break
			}
			cellDone = true
			if s.OnCell != nil {
				s.OnCell(col, text)
			}
		}
	}
}

// cellScanner reports the first text of every table cell in the document,
// regardless of table class. The summary page renders its label/value pairs
// as adjacent cells scattered over assorted layout tables.
type cellScanner struct {
	OnCell func(text string)
	Strict bool
}

func (s *cellScanner) Scan(r io.Reader) error {
	z := html.NewTokenizer(r)
	inCell := false
	cellDone := true
	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if err == io.EOF || !s.Strict {
				return nil
			}
			return err
		case html.StartTagToken:
			tok := z.Token()
			if tok.Data == "td" {
				inCell = true
				cellDone = false
			}
		case html.EndTagToken:
			if z.Token().Data == "td" {
				inCell = false
			}
		case html.TextToken:
			if !inCell || cellDone {
				break
			}
			text := strings.TrimSpace(string(z.Text()))
			if text == "" || text == placeholder {
				break
			}
			cellDone = true
			if s.OnCell != nil {
				s.OnCell(text)
			}
		}
	}
}

func attrVal(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
