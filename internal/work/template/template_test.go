package template

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func statements(groups []AreaGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Area.Statement)
	}
	return out
}

func itemStatements(g AreaGroup) []string {
	out := make([]string, 0, len(g.Items))
	for _, item := range g.Items {
		out = append(out, item.Statement)
	}
	return out
}

func TestExpand_TwoAreas(t *testing.T) {
	input := strings.Join([]string{
		"## Area: Roof",
		"- Inspect for leaks",
		"- Check gutters",
		"",
		"## Area: HVAC System",
		"- Change filters monthly",
	}, "\n")

	assetID := uuid.New()
	groups, err := Expand(input, assetID, now)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, []string{"Roof", "HVAC System"}, statements(groups))
	assert.Equal(t, []string{"Inspect for leaks", "Check gutters"}, itemStatements(groups[0]))
	assert.Equal(t, []string{"Change filters monthly"}, itemStatements(groups[1]))

	for i, g := range groups {
		assert.Equal(t, assetID, g.Area.AssetID)
		assert.True(t, g.Area.IsRelevant, "relevance defaults to relevant")
		assert.Equal(t, i+1, g.Area.Position)
		assert.NotEqual(t, uuid.Nil, g.Area.ID)
		for j, item := range g.Items {
			assert.Equal(t, g.Area.ID, item.WorkAreaID)
			assert.Equal(t, j+1, item.Position)
			assert.Empty(t, item.Description)
			assert.Nil(t, item.ReviewDate)
		}
	}
}

func TestExpand_ItemBeforeArea(t *testing.T) {
	_, err := Expand("- Check gutters", uuid.New(), now)
	require.Error(t, err)

	var malformed *MalformedTemplateError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Line)
}

func TestExpand_ItemBeforeAreaAfterIgnoredLines(t *testing.T) {
	input := "Some introduction text\n\n- Orphan item\n## Area: Roof"
	_, err := Expand(input, uuid.New(), now)

	var malformed *MalformedTemplateError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 3, malformed.Line)
}

func TestExpand_EmptyTemplate(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n", " \t \n  \n"} {
		groups, err := Expand(input, uuid.New(), now)
		require.NoError(t, err)
		assert.Empty(t, groups)
	}
}

func TestExpand_NoHeadingsNoItems(t *testing.T) {
	// Prose without headings or bullets is tolerated and yields nothing.
	groups, err := Expand("just a note\nanother line", uuid.New(), now)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestExpand_HeadingVariants(t *testing.T) {
	input := strings.Join([]string{
		"# Area: One",
		"- a",
		"### Area: Two",
		"- b",
		"#Area: Three", // no space after the marker is still a heading
		"- c",
		"##   Area: Four",
	}, "\n")

	groups, err := Expand(input, uuid.New(), now)
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two", "Three", "Four"}, statements(groups))
	assert.Empty(t, groups[3].Items)
}

func TestExpand_ItemMarkerVariants(t *testing.T) {
	input := strings.Join([]string{
		"## Area: Markers",
		"- dash",
		"* star",
		"+ plus",
	}, "\n")

	groups, err := Expand(input, uuid.New(), now)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"dash", "star", "plus"}, itemStatements(groups[0]))
}

func TestExpand_IgnoresNonMatchingLines(t *testing.T) {
	input := strings.Join([]string{
		"Intro prose before any heading",
		"## Maintenance notes", // heading without the Area: label
		"## Area: Roof",
		"some note under the area",
		"---",
		"*emphasis, not an item*",
		"-no space after marker",
		"- ", // marker with no statement text
		"- Real item",
	}, "\n")

	groups, err := Expand(input, uuid.New(), now)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Roof", groups[0].Area.Statement)
	assert.Equal(t, []string{"Real item"}, itemStatements(groups[0]))
}

func TestExpand_StatementsTrimmed(t *testing.T) {
	input := "##  Area:   Roof  \n-   Inspect for leaks  "
	groups, err := Expand(input, uuid.New(), now)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Roof", groups[0].Area.Statement)
	assert.Equal(t, []string{"Inspect for leaks"}, itemStatements(groups[0]))
}

func TestExpand_AreaCountMatchesHeadings(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 7; i++ {
		b.WriteString("## Area: Area ")
		b.WriteByte(byte('A' + i))
		b.WriteString("\n- item one\n- item two\n")
	}

	groups, err := Expand(b.String(), uuid.New(), now)
	require.NoError(t, err)
	require.Len(t, groups, 7)
	for _, g := range groups {
		assert.Len(t, g.Items, 2)
	}
}

// Re-expanding an identical template twice produces structurally equal but
// identity-distinct result sets.
func TestExpand_FreshIdentities(t *testing.T) {
	input := "## Area: Roof\n- Inspect for leaks\n- Check gutters"
	assetID := uuid.New()

	first, err := Expand(input, assetID, now)
	require.NoError(t, err)
	second, err := Expand(input, assetID, now)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Area.Statement, second[i].Area.Statement)
		assert.Equal(t, first[i].Area.Position, second[i].Area.Position)
		assert.NotEqual(t, first[i].Area.ID, second[i].Area.ID)
		require.Len(t, second[i].Items, len(first[i].Items))
		for j := range first[i].Items {
			assert.Equal(t, first[i].Items[j].Statement, second[i].Items[j].Statement)
			assert.NotEqual(t, first[i].Items[j].ID, second[i].Items[j].ID)
		}
	}
}
