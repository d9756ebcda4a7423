package soap

import "github.com/beevik/etree"

const (
	// NSSoapEnv is the SOAP 1.1 envelope namespace.
	NSSoapEnv = "http://schemas.xmlsoap.org/soap/envelope/"
	// NSUPnPErr is the namespace of the UPnPError fault detail element.
	NSUPnPErr = "urn:schemas-upnp-org:control-1-0"
	// EncodingStyle is the SOAP section-5 encoding advertised on the envelope.
	EncodingStyle = "http://schemas.xmlsoap.org/soap/encoding/"
)

// Param is one action argument on the wire. Params travel as an ordered
// slice: the serialization order of the request body is exactly the slice
// order, which must match the action's declared argument order.
type Param struct {
	Name  string
	Value string
}

// BuildEnvelope constructs the SOAP request envelope for a UPnP action
// call:
//
//	<?xml version="1.0" encoding="utf-8"?>
//	<SOAP-ENV:Envelope xmlns:SOAP-ENV="..." SOAP-ENV:encodingStyle="...">
//	  <SOAP-ENV:Body>
//	    <m:{action} xmlns:m="{serviceType}">
//	      <{Name}>{Value}</{Name}>
//	      ...
//	    </m:{action}>
//	  </SOAP-ENV:Body>
//	</SOAP-ENV:Envelope>
func BuildEnvelope(action, serviceType string, params []Param) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	env := doc.CreateElement("SOAP-ENV:Envelope")
	env.CreateAttr("xmlns:SOAP-ENV", NSSoapEnv)
	env.CreateAttr("SOAP-ENV:encodingStyle", EncodingStyle)

	body := env.CreateElement("SOAP-ENV:Body")
	call := body.CreateElement("m:" + action)
	call.CreateAttr("xmlns:m", serviceType)

	for _, p := range params {
		call.CreateElement(p.Name).SetText(p.Value)
	}

	return doc.WriteToBytes()
}
