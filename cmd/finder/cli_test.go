package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammed-shakir/resource-radius/internal/catalog"
	"github.com/mohammed-shakir/resource-radius/internal/core/model"
	"github.com/mohammed-shakir/resource-radius/internal/finder"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"find", "categories", "parse"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestFindCommand_Flags(t *testing.T) {
	for _, name := range []string{"address", "mode", "minutes", "category", "output"} {
		require.NotNil(t, findCmd.Flags().Lookup(name), "find should have --%s", name)
	}
	assert.Equal(t, "c", findCmd.Flags().Lookup("category").Shorthand)
}

func TestFormatCategories(t *testing.T) {
	var buf bytes.Buffer
	formatCategories(&buf, catalog.All())
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "welcomingCenters")
	assert.Contains(t, out, "IL-Welcoming-Centers.txt")
}

func TestRunParse_TableAndJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Community-Food-Share.txt")
	text := "category,name,item,latitude,longitude,address,website,phone\n" +
		`food,"Name, Inc.",item,1.0,2.0,addr,site,555-0100` + "\n" +
		"food,short,1,2,3\n"
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))

	var out, errOut bytes.Buffer
	require.NoError(t, runParse(&out, &errOut, path, false))
	assert.Contains(t, out.String(), "Name, Inc.")
	assert.NotContains(t, out.String(), "short")
	assert.Empty(t, errOut.String())

	out.Reset()
	require.NoError(t, runParse(&out, &errOut, path, true))
	assert.Contains(t, out.String(), `"name": "Name, Inc."`)

	assert.Error(t, runParse(&out, &errOut, filepath.Join(t.TempDir(), "missing.txt"), false))
}

func TestRunParse_UnknownHeaderWarns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.txt")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\nfood,N,i,1,2,addr,site,555\n"), 0o600))

	var out, errOut bytes.Buffer
	require.NoError(t, runParse(&out, &errOut, path, false))
	assert.Contains(t, errOut.String(), "default column order")
	assert.Contains(t, out.String(), "N")
}

func TestWriteView_Formats(t *testing.T) {
	v := finder.View{
		State:   finder.Displaying,
		Form:    finder.Form{Address: "233 S Wacker Dr", Mode: model.Walking, Minutes: 15},
		Records: []model.Record{{Category: "food", Name: "Pantry", Latitude: 41.88, Longitude: -87.63}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, v, "table"))
	assert.Contains(t, buf.String(), "Pantry")
	assert.Contains(t, buf.String(), "1 resources within 15 minutes (walking) of 233 S Wacker Dr")

	buf.Reset()
	require.NoError(t, writeView(&buf, v, "geojson"))
	assert.Contains(t, buf.String(), `"FeatureCollection"`)

	assert.Error(t, writeView(&buf, v, "xml"))
}

func TestFinderConfig_DataURL(t *testing.T) {
	c := finderConfig{ProxyURL: "http://localhost:4000/"}
	assert.Equal(t, "http://localhost:4000/locations", c.dataURL())
	c.DataURL = "https://static.example/locations-txt"
	assert.Equal(t, "https://static.example/locations-txt", c.dataURL())
}
