package producttree

import (
	"github.com/csaf-poc/csaf_distribution/v3/csaf"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
	"github.com/aquasecurity/cvrf2csaf/section"
)

func (h *Handler) handleFullProductNames(root *cvrf.Element, doc section.Document) error {
	elements := root.All("FullProductName")
	if len(elements) == 0 {
		return nil
	}

	fullProductNames := make([]FullProductName, 0, len(elements))
	for _, el := range elements {
		fpn, err := newFullProductName(el)
		if err != nil {
			return err
		}
		fullProductNames = append(fullProductNames, fpn)
	}

	doc[keyFullProductNames] = fullProductNames
	return nil
}

// newFullProductName is shared by every mapper embedding a product identity.
func newFullProductName(el *cvrf.Element) (FullProductName, error) {
	productID, err := el.RequiredAttr("ProductID")
	if err != nil {
		return FullProductName{}, err
	}

	fpn := FullProductName{
		ProductID: csaf.ProductID(productID),
		Name:      el.Text(),
	}
	// an empty CPE attribute is treated as absent
	if cpe, ok := el.Attr("CPE"); ok && cpe != "" {
		fpn.ProductIdentificationHelper = &ProductIdentificationHelper{CPE: cpe}
	}
	return fpn, nil
}
