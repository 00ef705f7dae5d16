package style

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/particle-backdrop/internal/theme"
)

const sheetYAML = `root:
  --secondary: "#CECBB6"
  --primary: "#112233"
themes:
  dark:
    --secondary: "rgb(58, 63, 75)"
  Sepia:
    secondary: "#704214"
`

func writeSheet(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSheet(t *testing.T) {
	sheet, err := LoadSheet(writeSheet(t, sheetYAML))
	require.NoError(t, err)

	v, ok := sheet.Lookup("", "--secondary")
	require.True(t, ok)
	assert.Equal(t, "#CECBB6", v)

	v, _ = sheet.Lookup("dark", "--secondary")
	assert.Equal(t, "rgb(58, 63, 75)", v)

	// theme without an override falls back to root
	v, _ = sheet.Lookup("dark", "--primary")
	assert.Equal(t, "#112233", v)

	// prefix-less keys and mixed-case theme names
	v, _ = sheet.Lookup("sepia", "--secondary")
	assert.Equal(t, "#704214", v)

	assert.Equal(t, []string{"dark", "sepia"}, sheet.Themes())

	_, ok = sheet.Lookup("", "--missing")
	assert.False(t, ok)
}

func TestLoadSheetMissingFile(t *testing.T) {
	_, err := LoadSheet(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestRootPropertyPrecedence(t *testing.T) {
	root := NewRoot(Default())

	assert.Equal(t, "#CECBB6", root.PropertyValue("--secondary"))

	root.SetAttribute(AttrTheme, "dark")
	assert.Equal(t, "#3A3F4B", root.PropertyValue("--secondary"))

	root.SetProperty("--secondary", "#000000")
	assert.Equal(t, "#000000", root.PropertyValue("--secondary"))

	root.SetProperty("--secondary", "")
	assert.Equal(t, "#3A3F4B", root.PropertyValue("--secondary"))

	assert.Equal(t, "", root.PropertyValue("--unknown"))
}

func TestRootObserveTheme(t *testing.T) {
	root := NewRoot(Default())

	var themeAttrs, allAttrs []string
	root.ObserveTheme(func(attr string) { themeAttrs = append(themeAttrs, attr) })
	root.Observe(func(attr string) { allAttrs = append(allAttrs, attr) })

	root.SetAttribute(AttrTheme, "dark")
	root.SetAttribute(AttrTheme, "dark") // re-delivery is ignored
	root.SetAttribute("lang", "fr")
	root.SetProperty("--secondary", "#010203")

	assert.Equal(t, []string{AttrTheme, AttrStyle}, themeAttrs)
	assert.Equal(t, []string{AttrTheme, "lang", AttrStyle}, allAttrs)
}

func TestRootCycleTheme(t *testing.T) {
	root := NewRoot(Default())

	assert.Equal(t, "dark", root.CycleTheme())
	assert.Equal(t, "light", root.CycleTheme())
	assert.Equal(t, "", root.CycleTheme())
	assert.Equal(t, "dark", root.CycleTheme())
}

func TestSheetReloadNotifiesRoot(t *testing.T) {
	sheet := NewSheet(Properties{"--secondary": "#111111"}, nil)
	root := NewRoot(sheet)

	var got []string
	root.ObserveTheme(func(attr string) { got = append(got, attr) })

	for _, fn := range sheet.onReload {
		fn()
	}
	assert.Equal(t, []string{AttrStylesheet}, got)
}

func TestWatchedSheetUpdatesAccent(t *testing.T) {
	path := writeSheet(t, "root:\n  --secondary: \"#111111\"\n")
	sheet, err := LoadSheet(path)
	require.NoError(t, err)

	root := NewRoot(sheet)
	colors := theme.NewSource(root, "--secondary")
	colors.OnExternalChange(root)
	require.Equal(t, theme.Accent{R: 0x11, G: 0x11, B: 0x11}, colors.Current())

	sheet.Watch()
	require.NoError(t, os.WriteFile(path, []byte("root:\n  --secondary: \"#222222\"\n"), 0o644))

	want := theme.Accent{R: 0x22, G: 0x22, B: 0x22}
	assert.Eventually(t, func() bool {
		return colors.Current() == want
	}, 5*time.Second, 20*time.Millisecond)
}
