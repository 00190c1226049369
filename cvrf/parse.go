package cvrf

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/xerrors"
)

// MaxDepth bounds element nesting accepted by Parse.
const MaxDepth = 10000

var ErrTooDeep = xerrors.New("document nested too deeply")

type frame struct {
	el   *Element
	text strings.Builder
}

// Parse reads a whole XML document and returns its root element.
func Parse(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)

	var (
		root  *Element
		stack []*frame
	)
	for {
		// position of the next token's first byte
		line, _ := d.InputPos()

		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, xerrors.Errorf("xml decode error: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) >= MaxDepth {
				return nil, xerrors.Errorf("line %d: <%s>: %w", line, t.Name.Local, ErrTooDeep)
			}
			el := &Element{
				Name:  t.Name.Local,
				Line:  line,
				attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, xerrors.Errorf("line %d: multiple root elements", line)
				}
				root = el
			} else {
				parent := stack[len(stack)-1].el
				parent.children = append(parent.children, el)
			}
			stack = append(stack, &frame{el: el})
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		case xml.EndElement:
			f := stack[len(stack)-1]
			f.el.text = strings.TrimSpace(f.text.String())
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, xerrors.New("empty XML document")
	}
	return root, nil
}
