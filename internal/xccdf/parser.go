package xccdf

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// legacyFindingSystem marks the ident element that carries the legacy V-ID.
const legacyFindingSystem = "http://cyber.mil/legacy/findingformat/"

// pseudoTag matches the escaped markup DISA embeds inside description text,
// e.g. <VulnDiscussion>...</VulnDiscussion>.
var pseudoTag = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9_-]*>`)

// ParseFile reads and parses the benchmark at path.
func ParseFile(path string) (*Benchmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening benchmark: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes an XCCDF document and returns its rules in document order.
// A malformed document or one whose root is not a Benchmark yields a
// *ParseError. A structurally valid document with zero rules is not an
// error; it yields an empty rule set.
func Parse(r io.Reader) (*Benchmark, error) {
	var doc xmlBenchmark
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			return nil, &ParseError{Msg: "malformed XML", Err: err}
		}
		return nil, &ParseError{Msg: "document root is not an XCCDF Benchmark", Err: err}
	}

	b := &Benchmark{Title: doc.Title.String()}
	seen := make(map[string]struct{})
	if err := collectRules(doc.Groups, seen, b); err != nil {
		return nil, err
	}
	return b, nil
}

// collectRules walks Group elements depth-first so nested groups keep
// document order.
func collectRules(groups []xmlGroup, seen map[string]struct{}, b *Benchmark) error {
	for _, g := range groups {
		for _, xr := range g.Rules {
			if xr.ID == "" {
				return &ParseError{Msg: fmt.Sprintf("rule in group %q has no id attribute", g.ID)}
			}
			if _, dup := seen[xr.ID]; dup {
				return &ParseError{Msg: fmt.Sprintf("duplicate rule id %q", xr.ID)}
			}
			seen[xr.ID] = struct{}{}

			sev, err := ParseSeverity(xr.Severity)
			if err != nil {
				return &ParseError{Msg: fmt.Sprintf("rule %q: %v", xr.ID, err)}
			}

			fixText := xr.Fixtext.String()
			if fixText == "" {
				// Older exports place remediation in the fix element.
				fixText = xr.Fix.String()
			}

			b.Rules = append(b.Rules, Rule{
				ID:          xr.ID,
				GroupID:     g.ID,
				LegacyID:    legacyIdent(xr.Idents),
				Title:       xr.Title.String(),
				Severity:    sev,
				Description: flattenDescription(xr.Description.String()),
				CheckText:   xr.Check.Content.String(),
				FixText:     fixText,
				CheckSystem: xr.Check.System,
			})
		}
		if err := collectRules(g.Groups, seen, b); err != nil {
			return err
		}
	}
	return nil
}

func legacyIdent(idents []xmlIdent) string {
	for _, id := range idents {
		if id.System == legacyFindingSystem {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

// flattenDescription strips the escaped pseudo-markup from a description
// while keeping the line breaks the source used.
func flattenDescription(s string) string {
	return strings.TrimSpace(pseudoTag.ReplaceAllString(s, ""))
}

// The xml* types mirror the element structure of an XCCDF document. Element
// names are matched by local name only, so the standard xccdf 1.1 and 1.2
// namespace prefixes are all tolerated.

type xmlBenchmark struct {
	XMLName xml.Name   `xml:"Benchmark"`
	Title   flatText   `xml:"title"`
	Groups  []xmlGroup `xml:"Group"`
}

type xmlGroup struct {
	ID     string     `xml:"id,attr"`
	Rules  []xmlRule  `xml:"Rule"`
	Groups []xmlGroup `xml:"Group"`
}

type xmlRule struct {
	ID          string     `xml:"id,attr"`
	Severity    string     `xml:"severity,attr"`
	Title       flatText   `xml:"title"`
	Description flatText   `xml:"description"`
	Idents      []xmlIdent `xml:"ident"`
	Fixtext     flatText   `xml:"fixtext"`
	Fix         flatText   `xml:"fix"`
	Check       xmlCheck   `xml:"check"`
}

type xmlIdent struct {
	System string `xml:"system,attr"`
	Value  string `xml:",chardata"`
}

type xmlCheck struct {
	System  string   `xml:"system,attr"`
	Content flatText `xml:"check-content"`
}

// flatText collects the character data of an element and all of its nested
// children, discarding the markup itself. Line breaks in the source text
// survive because they live inside the character data.
type flatText struct {
	text strings.Builder
}

func (t *flatText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	depth := 1
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch v := tok.(type) {
		case xml.CharData:
			t.text.Write(v)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}

func (t *flatText) String() string {
	return strings.TrimSpace(t.text.String())
}
