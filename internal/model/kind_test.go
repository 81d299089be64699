package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindFromExtension(t *testing.T) {
	t.Parallel()

	cases := []struct {
		extension string
		want      Kind
	}{
		{"pdf", KindPdf},
		{"PDF", KindPdf},
		{".pdf", KindPdf},
		{"jpg", KindImage},
		{"svg", KindImage},
		{"docx", KindWord},
		{"xlsx", KindExcel},
		{"pptx", KindPresentation},
		{"key", KindPresentation},
		{"csv", KindText},
		{"json", KindText},
		{"webm", KindVideo},
		{"wav", KindAudio},
		{"gz", KindArchive},
		{"", KindUnknown},
		{"exe", KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.extension, func(t *testing.T) {
			require.Equal(t, tc.want, KindFromExtension(tc.extension))
		})
	}
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindFolder, ParseKind("folder"))
	require.Equal(t, KindPdf, ParseKind(" Pdf "))
	require.Equal(t, KindUnknown, ParseKind("spreadsheet"))
	require.Equal(t, KindUnknown, ParseKind(""))
}

func TestNodePathHelpers(t *testing.T) {
	t.Parallel()

	root := Node{ID: "w1", Name: "Projects", Path: RootParentID, PathNames: RootParentID, Kind: KindFolder}
	require.Equal(t, "~/w1", root.ChildPath())
	require.Equal(t, "~/Projects", root.ChildPathNames())

	child := Node{ID: "d1", Name: "Docs", Path: root.ChildPath(), PathNames: root.ChildPathNames(), Kind: KindFolder}
	require.Equal(t, "~/w1/d1", child.ChildPath())
	require.Equal(t, "~/Projects/Docs", child.ChildPathNames())
}

func TestNodeAccessHelpers(t *testing.T) {
	t.Parallel()

	node := Node{OwnerID: "owner", AllowedUsers: []string{"guest"}}

	require.True(t, node.IsOwnedBy("owner"))
	require.False(t, node.IsOwnedBy("guest"))
	require.False(t, Node{}.IsOwnedBy(""))

	require.True(t, node.AllowsUser("guest"))
	require.False(t, node.AllowsUser("owner"))
	require.False(t, node.AllowsUser(""))
}
