// Package producttree converts the CVRF ProductTree section into the CSAF
// product_tree object.
package producttree

import (
	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
	"github.com/aquasecurity/cvrf2csaf/section"
)

const (
	// SectionName is the CVRF element handled by this package.
	SectionName = "ProductTree"

	// MaxBranchDepth is the default nesting limit for Branch elements.
	MaxBranchDepth = 10000

	keyFullProductNames = "full_product_names"
	keyRelationships    = "relationships"
	keyProductGroups    = "product_groups"
	keyBranches         = "branches"
)

type Option func(*Handler)

// WithLogger sets the sink for data-loss warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

func WithMaxBranchDepth(depth int) Option {
	return func(h *Handler) { h.maxDepth = depth }
}

// Handler implements section.Handler for the ProductTree section. It keeps
// no per-document state and may be shared between goroutines.
type Handler struct {
	logger   *zap.Logger
	maxDepth int
}

var _ section.Handler = (*Handler)(nil)

func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		logger:   zap.NewNop(),
		maxDepth: MaxBranchDepth,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Handle populates doc from root. Every key is written only when the
// corresponding CVRF construct exists; the first mapping error aborts.
func (h *Handler) Handle(root *cvrf.Element, doc section.Document) error {
	// ProductTree has no mandatory children
	if err := h.handleFullProductNames(root, doc); err != nil {
		return xerrors.Errorf("failed to map full product names: %w", err)
	}
	if err := h.handleRelationships(root, doc); err != nil {
		return xerrors.Errorf("failed to map relationships: %w", err)
	}
	if err := h.handleProductGroups(root, doc); err != nil {
		return xerrors.Errorf("failed to map product groups: %w", err)
	}
	if err := h.handleBranches(root, doc); err != nil {
		return xerrors.Errorf("failed to map branches: %w", err)
	}
	return nil
}
