package htmlutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTables_MultipleTables(t *testing.T) {
	doc := `<html><body>
		<table id="a"><tr><td>one</td></tr></table>
		<p>between</p>
		<TABLE class="b"><tr><td>two</td></tr></TABLE>
	</body></html>`

	tables := ExtractTables(doc)
	require.Len(t, tables, 2)
	assert.Contains(t, tables[0], "one")
	assert.Contains(t, tables[1], "two")
}

func TestExtractTablesAtLeast_LooseFallback(t *testing.T) {
	// Second table never closes; the strict pattern only sees the first.
	doc := `<table><tr><td>closed</td></tr></table>
		<table><tr><td>unclosed</td></tr>`

	strict := ExtractTables(doc)
	require.Len(t, strict, 1)

	tables, found := ExtractTablesAtLeast(doc, 2)
	assert.True(t, found)
	require.Len(t, tables, 2)
	assert.Contains(t, tables[1], "unclosed")
}

func TestExtractTablesAtLeast_NotEnough(t *testing.T) {
	_, found := ExtractTablesAtLeast("<p>no tables here</p>", 1)
	assert.False(t, found)
}

func TestExtractRowsAndCells(t *testing.T) {
	table := `<table>
		<tr><th>Header A</th><th>Header B</th></tr>
		<tr><td> Value&nbsp;1 </td><td><b>Value 2</b></td></tr>
	</table>`

	rows := ExtractRows(table)
	require.Len(t, rows, 2)

	header := ExtractCells(rows[0])
	assert.Equal(t, []string{"Header A", "Header B"}, header)

	body := ExtractCells(rows[1])
	require.Len(t, body, 2)
	assert.Equal(t, "Value 1", body[0])
	assert.Equal(t, "Value 2", body[1])
}

func TestExtractCellsRaw_KeepsMarkup(t *testing.T) {
	cells := ExtractCellsRaw(`<td><a href="/x">link</a></td>`)
	require.Len(t, cells, 1)
	assert.Contains(t, cells[0], `href="/x"`)
}

func TestStripTags_EntitiesAndWhitespace(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", StripTags("  <b>Tom</b> &amp;\n Jerry  "))
}

func TestExtractLinks(t *testing.T) {
	frag := `<td><a href="/a">First</a> and <a href='https://b'>Second link</a></td>`
	links := ExtractLinks(frag)
	require.Len(t, links, 2)
	assert.Equal(t, Link{Href: "/a", Text: "First"}, links[0])
	assert.Equal(t, Link{Href: "https://b", Text: "Second link"}, links[1])
}

func TestExtractVersionBuild(t *testing.T) {
	v, b := ExtractVersionBuild("Version 2312 (Build 17126.20132)")
	assert.Equal(t, "2312", v)
	assert.Equal(t, "17126.20132", b)

	v, b = ExtractVersionBuild("no version token")
	assert.Empty(t, v)
	assert.Empty(t, b)
}

func TestExtractKBNumber(t *testing.T) {
	assert.Equal(t, "KB5034123", ExtractKBNumber("January update (KB5034123)"))
	assert.Equal(t, "KB5034123", ExtractKBNumber("update KB 5034123 details"))
	assert.Empty(t, ExtractKBNumber("KB12345"))
	assert.Empty(t, ExtractKBNumber("no article here"))
}

func TestExtractBuildNumber(t *testing.T) {
	assert.Equal(t, "19045.3930", ExtractBuildNumber("OS Build 19045.3930"))
	assert.Equal(t, "17126.20132", ExtractBuildNumber("Build 17126.20132)"))
	assert.Empty(t, ExtractBuildNumber("version 22H2"))
}

func TestExtractAriaLabel(t *testing.T) {
	assert.Equal(t, "Windows 11 release history",
		ExtractAriaLabel(`<table aria-label="Windows 11 release history">`))
	assert.Empty(t, ExtractAriaLabel("<table>"))
}

func TestParseDate_MonthFirst(t *testing.T) {
	d, ok := ParseDate("released January 9, 2024 to all channels")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), d)
}

func TestParseDate_DayFirst(t *testing.T) {
	d, ok := ParseDate("9 January 2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), d)
}

func TestParseDate_Numeric(t *testing.T) {
	d, ok := ParseDate("2024-01-09")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("01/09/2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), d)
}

func TestParseDate_Invalid(t *testing.T) {
	_, ok := ParseDate("not a date")
	assert.False(t, ok)

	_, ok = ParseDate("13/45/2024")
	assert.False(t, ok)
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "January 9, 2024", NormalizeDate("2024-01-09"))
	assert.Equal(t, "January 9, 2024", NormalizeDate("  9 January 2024 "))
	assert.Equal(t, "TBD", NormalizeDate("  TBD "))
}
