package producttree

import (
	"github.com/csaf-poc/csaf_distribution/v3/csaf"
	"go.uber.org/zap"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
	"github.com/aquasecurity/cvrf2csaf/section"
)

func (h *Handler) handleRelationships(root *cvrf.Element, doc section.Document) error {
	elements := root.All("Relationship")
	if len(elements) == 0 {
		return nil
	}

	relationships := make([]Relationship, 0, len(elements))
	for _, el := range elements {
		rel, err := h.newRelationship(el)
		if err != nil {
			return err
		}
		relationships = append(relationships, rel)
	}

	doc[keyRelationships] = relationships
	return nil
}

func (h *Handler) newRelationship(el *cvrf.Element) (Relationship, error) {
	category, err := el.RequiredAttr("RelationType")
	if err != nil {
		return Relationship{}, err
	}
	productRef, err := el.RequiredAttr("ProductReference")
	if err != nil {
		return Relationship{}, err
	}
	relatesToRef, err := el.RequiredAttr("RelatesToProductReference")
	if err != nil {
		return Relationship{}, err
	}

	first, err := el.RequiredChild("FullProductName")
	if err != nil {
		return Relationship{}, err
	}
	// CSAF allows exactly one full_product_name per relationship
	// (conformance clause 9.1.5, CVRF CSAF converter).
	if n := len(el.All("FullProductName")); n > 1 {
		h.logger.Warn("Relationship contains more FullProductNames. Taking only the first one, since CSAF expects only 1 value here",
			zap.Int("line", el.Line),
			zap.String("category", category),
			zap.String("product_reference", productRef),
			zap.String("relates_to_product_reference", relatesToRef),
			zap.Int("full_product_names", n),
		)
	}

	fpn, err := newFullProductName(first)
	if err != nil {
		return Relationship{}, err
	}

	return Relationship{
		Category:                  category,
		ProductReference:          csaf.ProductID(productRef),
		RelatesToProductReference: csaf.ProductID(relatesToRef),
		FullProductName:           fpn,
	}, nil
}
