// Package yaml loads document type definitions from YAML.
package yaml

import (
	"errors"
	"io"
	"os"

	"github.com/fwojciec/devdocs"
	"gopkg.in/yaml.v3"
)

// file is the top-level layout of a registry file.
type file struct {
	Types []devdocs.DocType `yaml:"types"`
}

// LoadDocTypes decodes document types from r. Unknown keys are rejected
// so that a typo in a policy field does not silently change a crawl.
func LoadDocTypes(r io.Reader) ([]devdocs.DocType, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, devdocs.Errorf(devdocs.EINVALID, "decode doc types: %v", err)
	}

	seen := make(map[string]bool, len(f.Types))
	for i := range f.Types {
		t := &f.Types[i]
		if t.Name == "" {
			return nil, devdocs.Errorf(devdocs.EINVALID, "doc type %d: name required", i+1)
		}
		if seen[t.ID()] {
			return nil, devdocs.Errorf(devdocs.EINVALID, "duplicate doc type %q", t.ID())
		}
		seen[t.ID()] = true
	}
	return f.Types, nil
}

// LoadFile reads document types from the file at path.
func LoadFile(path string) ([]devdocs.DocType, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, devdocs.Errorf(devdocs.ENOTFOUND, "config %s not found", path)
		}
		return nil, err
	}
	defer f.Close()
	return LoadDocTypes(f)
}
