// Package didl parses DIDL-Lite documents, the metadata format
// ContentDirectory services hand back in the Result argument of Browse
// and Search. The model keeps the attributes a control point needs to
// present a library and pick a playable resource.
package didl

import "encoding/xml"

// Document is the root <DIDL-Lite> element of a Browse or Search result.
type Document struct {
	XMLName    xml.Name    `xml:"DIDL-Lite"`
	Containers []Container `xml:"container"`
	Items      []Item      `xml:"item"`
}

// Container is a browsable folder-like object: an album, an artist, a
// playlist. Servers may nest containers arbitrarily deep.
type Container struct {
	ID         string `xml:"id,attr"`
	ParentID   string `xml:"parentID,attr"`
	Restricted string `xml:"restricted,attr,omitempty"`
	ChildCount string `xml:"childCount,attr,omitempty"`

	Title string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Class string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ class"`

	Containers []Container `xml:"container"`
	Items      []Item      `xml:"item"`
}

// Item is a playable object, typically a track.
type Item struct {
	ID         string `xml:"id,attr"`
	ParentID   string `xml:"parentID,attr"`
	Restricted string `xml:"restricted,attr,omitempty"`

	Title               string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator             string `xml:"http://purl.org/dc/elements/1.1/ creator,omitempty"`
	Date                string `xml:"http://purl.org/dc/elements/1.1/ date,omitempty"`
	Class               string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ class"`
	Artist              string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ artist,omitempty"`
	Album               string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ album,omitempty"`
	Genre               string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ genre,omitempty"`
	AlbumArt            string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ albumArtURI,omitempty"`
	OriginalTrackNumber string `xml:"urn:schemas-upnp-org:metadata-1-0/upnp/ originalTrackNumber,omitempty"`

	Resources []Resource `xml:"res"`
}

// Resource locates one rendition of an item. ProtocolInfo follows the
// four-field UPnP convention, e.g. "http-get:*:audio/flac:*".
type Resource struct {
	ProtocolInfo    string `xml:"protocolInfo,attr"`
	BitsPerSample   string `xml:"bitsPerSample,attr,omitempty"`
	SampleFrequency string `xml:"sampleFrequency,attr,omitempty"`
	NrAudioChannels string `xml:"nrAudioChannels,attr,omitempty"`
	Duration        string `xml:"duration,attr,omitempty"`
	URL             string `xml:",chardata"`
}
