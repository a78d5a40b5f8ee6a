package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<p>Hello <b>big <i>bold</i></b> world</p><!-- note -->`))
	require.NoError(t, err)
	require.Equal(t, "Hello big bold world", GetText(doc))
	require.Equal(t, "", GetText(nil))
}

func TestGetTextKeepsWhitespace(t *testing.T) {
	doc, err := html.Parse(strings.NewReader("<select><option>  Robotics\n Club </option></select>"))
	require.NoError(t, err)
	require.Equal(t, "  Robotics\n Club ", GetText(doc))
}

func TestCleanText(t *testing.T) {
	table := []struct {
		input    string
		expected string
	}{
		{input: "Robotics Club", expected: "Robotics Club"},
		{input: "\n\t  Robotics   Club \n", expected: "Robotics Club"},
		{input: "Robotics\tClub", expected: "Robotics Club"},
		{input: "Chess\u0000 Club", expected: "Chess Club"},
		{input: "", expected: ""},
	}

	for _, row := range table {
		require.Equal(t, row.expected, CleanText(row.input))
	}
}
