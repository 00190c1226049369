package producttree

import (
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
	"github.com/aquasecurity/cvrf2csaf/section"
)

var (
	ErrEmptyBranch = xerrors.New("branch has neither Branch children nor FullProductName")
	ErrMaxDepth    = xerrors.New("maximum branch depth exceeded")
)

type branchKind int

const (
	branchAbsent branchKind = iota
	branchLeaf
	branchNode
)

// classifyBranch decides the CSAF shape of el. FullProductName wins over
// nested Branch elements since CSAF cannot carry both.
func classifyBranch(el *cvrf.Element) branchKind {
	switch {
	case el.Has("FullProductName"):
		return branchLeaf
	case el.Has("Branch"):
		return branchNode
	default:
		return branchAbsent
	}
}

// handleBranches maps only the Branch children of the section root; root
// level FullProductName elements belong to full_product_names.
func (h *Handler) handleBranches(root *cvrf.Element, doc section.Document) error {
	if !root.Has("Branch") {
		return nil
	}

	branches, err := h.branches(root, 0)
	if err != nil {
		return err
	}
	doc[keyBranches] = branches
	return nil
}

func (h *Handler) branches(parent *cvrf.Element, depth int) ([]Branch, error) {
	children := parent.All("Branch")
	branches := make([]Branch, 0, len(children))
	for _, child := range children {
		b, err := h.branch(child, depth+1)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

func (h *Handler) branch(el *cvrf.Element, depth int) (Branch, error) {
	if depth > h.maxDepth {
		return nil, xerrors.Errorf("line %d: depth %d: %w", el.Line, depth, ErrMaxDepth)
	}

	name, err := el.RequiredAttr("Name")
	if err != nil {
		return nil, err
	}
	category, err := el.RequiredAttr("Type")
	if err != nil {
		return nil, err
	}

	switch classifyBranch(el) {
	case branchLeaf:
		fpnElement, _ := el.First("FullProductName")
		product, err := newFullProductName(fpnElement)
		if err != nil {
			return nil, err
		}
		return Leaf{Name: name, Category: category, Product: product}, nil
	case branchNode:
		children, err := h.branches(el, depth)
		if err != nil {
			return nil, err
		}
		return Node{Name: name, Category: category, Branches: children}, nil
	default:
		return nil, xerrors.Errorf("line %d: <%s Name=%q>: %w", el.Line, el.Name, name, ErrEmptyBranch)
	}
}
