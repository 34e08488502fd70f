package resource

import (
	_ "embed"
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ManifestFile is the optional manifest at the corpus root.
const ManifestFile = "corpus.cue"

//go:embed manifest.cue
var manifestSchema string

// Manifest describes a corpus. Fields left out of corpus.cue take the
// schema defaults.
type Manifest struct {
	Language     string `json:"language"`
	Hemisphere   string `json:"hemisphere"`
	DocumentType string `json:"document_type"`

	// Kinds lists the enabled extractors. Empty means all of them.
	Kinds []string `json:"kinds,omitempty"`

	Tense TensePatterns `json:"tense"`
}

// TensePatterns names the shared patterns used for tense detection.
type TensePatterns struct {
	PresentFuture string `json:"present_future"`
	Past          string `json:"past"`
	Future        string `json:"future"`
	FutureWord    string `json:"future_word"`
}

// decodeManifest validates src against #Manifest. When src is nil the
// manifest holds only defaults and the given language.
func decodeManifest(src []byte, language string) (Manifest, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(manifestSchema, cue.Filename("manifest.cue"))
	if err := schema.Err(); err != nil {
		return Manifest{}, fmt.Errorf("compiling manifest schema: %w", err)
	}

	if src == nil {
		src = []byte("language: " + strconv.Quote(language) + "\n")
	}
	val := ctx.CompileBytes(src, cue.Filename(ManifestFile))
	if err := val.Err(); err != nil {
		return Manifest{}, err
	}

	unified := schema.LookupPath(cue.ParsePath("#Manifest")).Unify(val)
	if err := unified.Validate(); err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}
