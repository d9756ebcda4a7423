package soap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

var xmlDeclRe = regexp.MustCompile(`(?i)<\?xml.*?\?>`)

// stripExtraXMLDeclarations removes every XML declaration but the first.
// Some devices return XML with more than one declaration in, typically when
// echoing back their own config files.
func stripExtraXMLDeclarations(s string) string {
	decl := ""
	if strings.HasPrefix(s, "<?xml") {
		if idx := strings.Index(s, "?>"); idx >= 0 {
			decl, s = s[:idx+2], s[idx+2:]
		}
	}
	return decl + xmlDeclRe.ReplaceAllString(s, "")
}

// readDocument parses body, retrying once with extraneous XML declarations
// stripped.
func readDocument(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err == nil {
		return doc, nil
	}
	doc = etree.NewDocument()
	if err := doc.ReadFromString(stripExtraXMLDeclarations(strings.TrimSpace(string(body)))); err != nil {
		return nil, err
	}
	return doc, nil
}

// findResponseElement walks the document in order and returns the first
// element whose local name ends in "Response", case-insensitively,
// regardless of namespace. Devices are not reliable about the namespace
// they put on the response element, so only the local name is matched.
func findResponseElement(e *etree.Element) *etree.Element {
	if strings.HasSuffix(strings.ToLower(e.Tag), "response") {
		return e
	}
	for _, child := range e.ChildElements() {
		if found := findResponseElement(child); found != nil {
			return found
		}
	}
	return nil
}

// ParseResponse extracts the output arguments of a successful SOAP
// response as a name to text-content map. A body without a *Response
// element is a *ProtocolError.
func ParseResponse(body []byte) (map[string]string, error) {
	doc, err := readDocument(body)
	if err != nil {
		return nil, &ProtocolError{Message: "response is not valid XML: " + err.Error()}
	}

	root := doc.Root()
	if root == nil {
		return nil, &ProtocolError{Message: "response has no root element"}
	}

	response := findResponseElement(root)
	if response == nil {
		return nil, &ProtocolError{Message: "returned XML did not include a response element"}
	}

	out := make(map[string]string)
	for _, arg := range response.ChildElements() {
		// Some devices return XML argument values without CDATA escaping;
		// in that case the value has been parsed as elements and must be
		// re-serialized.
		if children := arg.ChildElements(); len(children) > 0 {
			parts := make([]string, 0, len(children))
			for _, c := range children {
				parts = append(parts, serializeElement(c))
			}
			out[arg.Tag] = strings.Join(parts, "\n")
		} else {
			out[arg.Tag] = arg.Text()
		}
	}
	return out, nil
}

func serializeElement(e *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// ParseFault decodes an error response. A well-formed UPnP fault becomes a
// *Error carrying errorCode and errorDescription. A fault missing either
// element is a *ProtocolError: the device returned something we cannot
// interpret. A body that is not XML at all surfaces cause unchanged, so a
// plain HTTP failure is never masked as a protocol error.
func ParseFault(body []byte, cause error) error {
	doc, err := readDocument(body)
	if err != nil {
		return cause
	}

	root := doc.Root()
	if root == nil {
		return cause
	}

	upnpErr := findLocalElement(root, "UPnPError")
	if upnpErr == nil {
		return &ProtocolError{Message: "fault response does not carry a UPnPError detail element"}
	}

	codeElem := findLocalElement(upnpErr, "errorCode")
	descElem := findLocalElement(upnpErr, "errorDescription")
	if codeElem == nil || descElem == nil {
		return &ProtocolError{Message: "tags errorCode or errorDescription were not found in the error response"}
	}

	code, err := strconv.Atoi(strings.TrimSpace(codeElem.Text()))
	if err != nil {
		return &ProtocolError{Message: "errorCode is not an integer: " + codeElem.Text()}
	}

	return &Error{Code: code, Description: descElem.Text()}
}

// findLocalElement returns the first descendant (or e itself) whose local
// name matches tag, ignoring namespaces.
func findLocalElement(e *etree.Element, tag string) *etree.Element {
	if e.Tag == tag {
		return e
	}
	for _, child := range e.ChildElements() {
		if found := findLocalElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}
