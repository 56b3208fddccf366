package jbxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Response holds the fields the tool reads out of a JBXMLRespond document.
// The SDK nests StatusCode either directly under JBXMLRespond (top-level
// errors) or under MaterialQueryRs/MaterialModRs (per-request results), so
// parsing scans for the first occurrence of each element.
type Response struct {
	StatusCode    string
	StatusMessage string
	LastUpdated   string
	OnHand        string
}

// OK reports whether the SDK accepted the request (StatusCode 0).
func (r *Response) OK() bool {
	return r.StatusCode == "0"
}

// Message returns the best available human-readable status.
func (r *Response) Message() string {
	if r.StatusMessage != "" {
		return r.StatusMessage
	}
	return fmt.Sprintf("status code: %s", r.StatusCode)
}

// ParseResponse decodes a JBXML response document. Returns an error for
// documents that are not well-formed XML or carry no StatusCode at all;
// such responses are ambiguous, not rejections.
func ParseResponse(doc string) (*Response, error) {
	fields, root, err := scanElements(doc, "StatusCode", "StatusMessage", "LastUpdated", "OnHand")
	if err != nil {
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	if root != "JBXML" {
		return nil, fmt.Errorf("unexpected response root element %q", root)
	}
	if fields["StatusCode"] == "" {
		return nil, fmt.Errorf("response carries no StatusCode")
	}
	return &Response{
		StatusCode:    fields["StatusCode"],
		StatusMessage: fields["StatusMessage"],
		LastUpdated:   fields["LastUpdated"],
		OnHand:        fields["OnHand"],
	}, nil
}

// CheckUpdateDocument verifies that a generated update artifact is
// well-formed and structurally an update request: root JBXML, a
// MaterialModRq with material ID and Quantity. This is the whole of what
// dry-run checks; it never touches the transport.
func CheckUpdateDocument(doc string) error {
	fields, root, err := scanElements(doc, "MaterialModRq", "ID", "Quantity")
	if err != nil {
		return fmt.Errorf("not well-formed XML: %w", err)
	}
	if root != "JBXML" {
		return fmt.Errorf("root element is %q, want JBXML", root)
	}
	if !fields.seen("MaterialModRq") {
		return fmt.Errorf("document is not a MaterialModRq update request")
	}
	if fields["ID"] == "" {
		return fmt.Errorf("update request is missing the material ID")
	}
	if fields["Quantity"] == "" {
		return fmt.Errorf("update request is missing the quantity")
	}
	return nil
}

// ResolveSession binds the session placeholder in a generated document.
func ResolveSession(doc, sessionID string) string {
	return strings.ReplaceAll(doc, PlaceholderSession, sessionID)
}

// ResolveLastUpdated binds the optimistic-lock placeholder in an update
// document with the value returned by the preceding query.
func ResolveLastUpdated(doc, lastUpdated string) string {
	return strings.ReplaceAll(doc, PlaceholderLastUpdated, lastUpdated)
}

type elementFields map[string]string

func (f elementFields) seen(name string) bool {
	_, ok := f[name]
	return ok
}

// scanElements walks the token stream once, recording the first text value
// of each wanted element and the document's root element name. A wanted
// element that occurs but has no character data is recorded as "".
func scanElements(doc string, wanted ...string) (elementFields, string, error) {
	want := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		want[w] = true
	}

	fields := make(elementFields)
	var root string
	var current string

	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if root == "" {
				root = t.Name.Local
			}
			if want[t.Name.Local] && !fields.seen(t.Name.Local) {
				fields[t.Name.Local] = ""
				current = t.Name.Local
			} else {
				current = ""
			}
		case xml.CharData:
			if current != "" && fields[current] == "" {
				fields[current] = strings.TrimSpace(string(t))
			}
		case xml.EndElement:
			current = ""
		}
	}
	if root == "" {
		return nil, "", fmt.Errorf("empty document")
	}
	return fields, root, nil
}
