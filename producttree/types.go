package producttree

import (
	"github.com/csaf-poc/csaf_distribution/v3/csaf"
)

// FullProductName : product_tree>full_product_names[]
type FullProductName struct {
	ProductID                   csaf.ProductID               `json:"product_id"`
	Name                        string                       `json:"name"`
	ProductIdentificationHelper *ProductIdentificationHelper `json:"product_identification_helper,omitempty"`
}

// ProductIdentificationHelper : full_product_name>product_identification_helper
type ProductIdentificationHelper struct {
	CPE string `json:"cpe"`
}

// Relationship : product_tree>relationships[]
type Relationship struct {
	Category                  string          `json:"category"`
	ProductReference          csaf.ProductID  `json:"product_reference"`
	RelatesToProductReference csaf.ProductID  `json:"relates_to_product_reference"`
	FullProductName           FullProductName `json:"full_product_name"`
}

// ProductGroup : product_tree>product_groups[]
type ProductGroup struct {
	GroupID    string           `json:"group_id"`
	ProductIDs []csaf.ProductID `json:"product_ids"`
	Summary    *string          `json:"summary,omitempty"`
}

// Branch is either a Leaf or a Node.
type Branch interface {
	isBranch()
}

// Leaf : branches[] holding a single product
type Leaf struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Product  FullProductName `json:"product"`
}

// Node : branches[] holding nested branches
type Node struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Branches []Branch `json:"branches"`
}

func (Leaf) isBranch() {}
func (Node) isBranch() {}
