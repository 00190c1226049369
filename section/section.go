// Package section defines the contract shared by CVRF section converters.
package section

import (
	"github.com/aquasecurity/cvrf2csaf/cvrf"
)

// Document is the CSAF output being populated. Values must be JSON-encodable.
type Document map[string]any

// Handler converts one CVRF section rooted at root into doc.
type Handler interface {
	Handle(root *cvrf.Element, doc Document) error
}

