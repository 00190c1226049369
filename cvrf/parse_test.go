package cvrf_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasecurity/cvrf2csaf/cvrf"
)

const productTreeXML = `<?xml version="1.0" encoding="UTF-8"?>
<cvrfdoc xmlns="http://www.icasi.org/CVRF/schema/cvrf/1.1"
         xmlns:prod="http://www.icasi.org/CVRF/schema/prod/1.1">
  <DocumentTitle>Security update</DocumentTitle>
  <prod:ProductTree>
    <prod:Branch Type="Vendor" Name="SUSE">
      <prod:FullProductName ProductID="p1" CPE="cpe:/o:suse:sles:15">
        SUSE Linux Enterprise Server 15
      </prod:FullProductName>
    </prod:Branch>
    <prod:FullProductName ProductID="p2">libfoo-1.0</prod:FullProductName>
  </prod:ProductTree>
</cvrfdoc>
`

func TestParse(t *testing.T) {
	root, err := cvrf.Parse(strings.NewReader(productTreeXML))
	require.NoError(t, err)

	assert.Equal(t, "cvrfdoc", root.Name)
	assert.Equal(t, 2, root.Line)
	assert.Len(t, root.Children(), 2)

	title, ok := root.First("DocumentTitle")
	require.True(t, ok)
	assert.Equal(t, "Security update", title.Text())

	tree, ok := root.First("ProductTree")
	require.True(t, ok)
	assert.Equal(t, 5, tree.Line)
	assert.True(t, tree.Has("Branch"))
	assert.False(t, tree.Has("Relationship"))
	assert.Len(t, tree.All("FullProductName"), 1)
	assert.Empty(t, tree.All("Relationship"))

	fpn, ok := root.Find("ProductTree", "Branch", "FullProductName")
	require.True(t, ok)
	assert.Equal(t, 7, fpn.Line)
	assert.Equal(t, "SUSE Linux Enterprise Server 15", fpn.Text())

	cpe, ok := fpn.Attr("CPE")
	assert.True(t, ok)
	assert.Equal(t, "cpe:/o:suse:sles:15", cpe)

	_, ok = fpn.Attr("Missing")
	assert.False(t, ok)

	_, ok = root.Find("ProductTree", "ProductGroups")
	assert.False(t, ok)
}

func TestElement_RequiredAttr(t *testing.T) {
	root, err := cvrf.Parse(strings.NewReader("<a>\n<b X=\"1\"/>\n</a>"))
	require.NoError(t, err)

	b, err := root.RequiredChild("b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.Line)

	v, err := b.RequiredAttr("X")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	_, err = b.RequiredAttr("Y")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cvrf.ErrMissingAttribute))
	assert.EqualError(t, err, "line 2: <b> has no Y attribute: missing attribute")

	_, err = root.RequiredChild("c")
	assert.True(t, errors.Is(err, cvrf.ErrMissingElement))
	assert.ErrorContains(t, err, "line 1: <a> has no <c> child")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		wantIs  error
	}{
		{
			name:    "empty",
			input:   "",
			wantErr: "empty XML document",
		},
		{
			name:    "broken",
			input:   "<a><b></a>",
			wantErr: "xml decode error",
		},
		{
			name:    "too deep",
			input:   strings.Repeat("<a>", cvrf.MaxDepth+1) + strings.Repeat("</a>", cvrf.MaxDepth+1),
			wantErr: "document nested too deeply",
			wantIs:  cvrf.ErrTooDeep,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cvrf.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
