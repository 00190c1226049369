package producttree

import (
	"github.com/csaf-poc/csaf_distribution/v3/csaf"
	"github.com/samber/lo"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
	"github.com/aquasecurity/cvrf2csaf/section"
)

func (h *Handler) handleProductGroups(root *cvrf.Element, doc section.Document) error {
	container, ok := root.First("ProductGroups")
	if !ok {
		return nil
	}

	groups := container.All("Group")
	productGroups := make([]ProductGroup, 0, len(groups))
	for _, g := range groups {
		groupID, err := g.RequiredAttr("GroupID")
		if err != nil {
			return err
		}

		pg := ProductGroup{
			GroupID: groupID,
			ProductIDs: lo.Map(g.All("ProductID"), func(el *cvrf.Element, _ int) csaf.ProductID {
				return csaf.ProductID(el.Text())
			}),
		}
		if desc, ok := g.First("Description"); ok {
			pg.Summary = lo.ToPtr(desc.Text())
		}
		productGroups = append(productGroups, pg)
	}

	doc[keyProductGroups] = productGroups
	return nil
}
