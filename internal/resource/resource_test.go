package resource

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"repattern/resources_repattern_reMonthLong.txt": {Data: []byte(
			"// months\nJanuary\nFebruary\n\nMarch\r\n")},
		"repattern/resources_repattern_reYear4Digit.txt": {Data: []byte(`[12]\d\d\d` + "\n")},
		"normalization/resources_normalization_normMonth.txt": {Data: []byte(
			"// month names\n\"January\",\"01\"\n\"February\",\"02\"\nnot a pair\n\"March\",\"03\"\n")},
		"rules/resources_rules_daterules.txt": {Data: []byte(
			"// date rules\n" +
				`RULENAME="date_r1",EXTRACTION="%reMonthLong %reYear4Digit",NORM_VALUE="group(2)-%normMonth(group(1))"` + "\n")},
		"rules/resources_rules_durationrules.txt": {Data: []byte(
			`RULENAME="duration_r1",EXTRACTION="(\d+) hours",NORM_VALUE="PTgroup(1)H"` + "\n")},
		"rules/README.txt": {Data: []byte("ignored")},
	}
}

func TestLoad_Corpus(t *testing.T) {
	c, err := Load(testFS(), WithLogger(quietLogger()))
	require.NoError(t, err)

	p, ok := c.Pattern("reMonthLong")
	require.True(t, ok)
	assert.Equal(t, "(January|February|March)", p)

	p, ok = c.Pattern("reYear4Digit")
	require.True(t, ok)
	assert.Equal(t, `([12]\d\d\d)`, p)

	_, ok = c.Pattern("reNope")
	assert.False(t, ok)

	table, ok := c.Tables["normMonth"]
	require.True(t, ok)
	assert.Equal(t, 3, table.Len())
	v, ok := table.Lookup("March")
	require.True(t, ok)
	assert.Equal(t, "03", v)

	require.Len(t, c.Rules, 2)
	assert.Equal(t, "daterules", c.Rules[0].Name)
	assert.Equal(t, "DATE", c.Rules[0].Kind)
	assert.Equal(t, "rules/resources_rules_daterules.txt", c.Rules[0].Path)
	require.Len(t, c.Rules[0].Lines, 1)
	assert.Equal(t, 2, c.Rules[0].Lines[0].No)
	assert.Equal(t, "DURATION", c.Rules[1].Kind)
}

func TestLoad_DefaultManifest(t *testing.T) {
	c, err := Load(testFS(), WithLogger(quietLogger()), WithLanguage("english"))
	require.NoError(t, err)

	assert.Equal(t, Manifest{
		Language:     "english",
		Hemisphere:   "northern",
		DocumentType: "news",
		Tense: TensePatterns{
			PresentFuture: "tensePos4PresentFuture",
			Past:          "tensePos4Past",
			Future:        "tensePos4Future",
			FutureWord:    "tenseWord4Future",
		},
	}, c.Manifest)
}

func TestLoad_Manifest(t *testing.T) {
	fsys := testFS()
	fsys[ManifestFile] = &fstest.MapFile{Data: []byte(`
language:      "english"
hemisphere:    "southern"
document_type: "narrative"
kinds: ["DATE", "DURATION"]
tense: past: "myPastTags"
`)}

	c, err := Load(fsys, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, "english", c.Manifest.Language)
	assert.Equal(t, "southern", c.Manifest.Hemisphere)
	assert.Equal(t, "narrative", c.Manifest.DocumentType)
	assert.Equal(t, []string{"DATE", "DURATION"}, c.Manifest.Kinds)
	assert.Equal(t, "myPastTags", c.Manifest.Tense.Past)
	assert.Equal(t, "tensePos4Future", c.Manifest.Tense.Future)
}

func TestLoad_InvalidManifest(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad hemisphere", `language: "english", hemisphere: "eastern"`},
		{"bad kind", `language: "english", kinds: ["EVENT"]`},
		{"missing language", `hemisphere: "northern"`},
		{"syntax", `language: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS()
			fsys[ManifestFile] = &fstest.MapFile{Data: []byte(tt.src)}

			_, err := Load(fsys, WithLogger(quietLogger()))
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, ErrCodeManifest, le.Code)
			assert.Equal(t, ManifestFile, le.Path)
		})
	}
}

func TestLoad_WarnsOnBadLines(t *testing.T) {
	fsys := testFS()
	fsys["rules/resources_rules_dates.txt"] = &fstest.MapFile{Data: []byte("x\n")}

	var logs bytes.Buffer
	_, err := Load(fsys, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "cannot read normalization line")
	assert.Contains(t, out, "line=4")
	assert.Contains(t, out, "does not end in 'rules'")
	assert.Contains(t, out, "resources_rules_dates.txt")
	assert.Contains(t, out, "loaded corpus")
}

func TestLoad_NoRules(t *testing.T) {
	fsys := fstest.MapFS{
		"repattern/resources_repattern_reDigit.txt": {Data: []byte(`\d` + "\n")},
	}

	_, err := Load(fsys, WithLogger(quietLogger()))
	require.Error(t, err)
	assert.True(t, IsLoadError(err))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNoRules, le.Code)
}

func TestLoadDir_NotFound(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "missing"))

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, ErrCodeNotFound, le.Code)
}

func TestLoadError_Format(t *testing.T) {
	tests := []struct {
		err  *LoadError
		want string
	}{
		{&LoadError{Code: "C003", Path: "rules/x.txt", Line: 4, Message: "boom"}, "C003: rules/x.txt:4: boom"},
		{&LoadError{Code: "C001", Path: "corpus", Message: "missing"}, "C001: corpus: missing"},
		{&LoadError{Code: "C004", Message: "empty"}, "C004: empty"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func writeCorpus(t *testing.T, dir string) {
	t.Helper()
	for name, f := range testFS() {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}
}

func TestLoadDir_LanguageFromDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "english")
	writeCorpus(t, dir)

	c, err := LoadDir(dir, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Equal(t, "english", c.Manifest.Language)
	assert.Len(t, c.Rules, 2)
}

func TestCache_Load(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "english")
	writeCorpus(t, dir)

	cache := NewCache(0, WithLogger(quietLogger()))

	first, err := cache.Load(dir)
	require.NoError(t, err)
	second, err := cache.Load(dir + string(filepath.Separator))
	require.NoError(t, err)
	assert.Same(t, first, second, "same directory is served from the cache")
	assert.Equal(t, 1, cache.Len())

	cache.Delete(dir)
	assert.Equal(t, 0, cache.Len())

	third, err := cache.Load(dir)
	require.NoError(t, err)
	assert.NotSame(t, first, third)

	_, err = cache.Load(filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, 1, cache.Len(), "failed loads are not cached")

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}
