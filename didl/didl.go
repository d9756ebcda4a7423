package didl

import (
	"encoding/xml"
	"iter"
	"strings"

	"github.com/pkg/errors"
)

// Parse decodes a DIDL-Lite document, typically the Result output
// argument of a ContentDirectory Browse or Search call.
func Parse(metadata string) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal([]byte(metadata), &doc); err != nil {
		return nil, errors.Wrap(err, "parsing DIDL-Lite")
	}
	return &doc, nil
}

// AllContainers iterates over every container of the document,
// depth-first, nested containers included.
func (d *Document) AllContainers() iter.Seq[*Container] {
	return func(yield func(*Container) bool) {
		for i := range d.Containers {
			for c := range d.Containers[i].self() {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// AllItems iterates over every item of the document, the ones nested in
// containers included.
func (d *Document) AllItems() iter.Seq[*Item] {
	return func(yield func(*Item) bool) {
		for i := range d.Items {
			if !yield(&d.Items[i]) {
				return
			}
		}
		for container := range d.AllContainers() {
			for i := range container.Items {
				if !yield(&container.Items[i]) {
					return
				}
			}
		}
	}
}

// FindContainer returns the first container with the given object id, or
// nil.
func (d *Document) FindContainer(id string) *Container {
	for c := range d.AllContainers() {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindItem returns the first item with the given object id, or nil.
func (d *Document) FindItem(id string) *Item {
	for item := range d.AllItems() {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// self iterates over the container and its descendants, depth-first.
func (c *Container) self() iter.Seq[*Container] {
	return func(yield func(*Container) bool) {
		if !yield(c) {
			return
		}
		for i := range c.Containers {
			for child := range c.Containers[i].self() {
				if !yield(child) {
					return
				}
			}
		}
	}
}

// AudioResources returns the item's resources whose protocolInfo names an
// audio MIME type over http-get.
func (i *Item) AudioResources() []Resource {
	var out []Resource
	for _, res := range i.Resources {
		if strings.HasPrefix(res.ProtocolInfo, "http-get:*:audio/") {
			out = append(out, res)
		}
	}
	return out
}

// PrimaryResource returns the item's first resource, the one servers list
// as the preferred rendition, or nil when the item carries none.
func (i *Item) PrimaryResource() *Resource {
	if len(i.Resources) == 0 {
		return nil
	}
	return &i.Resources[0]
}
