// Package schemafile loads record shapes from YAML or JSON documents:
//
//	name: Person
//	fields:
//	  - {name: name, kind: text}
//	  - {name: age, kind: int, nullable: true}
//
// Unknown keys are rejected in both formats.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/dynrec"
)

// Document is the serialized form of a schema.
type Document struct {
	Name   string                   `json:"name" yaml:"name"`
	Fields []dynrec.FieldDescriptor `json:"fields" yaml:"fields"`
}

// ErrMissingName is returned by Compile when the document has no name.
var ErrMissingName = errors.New("schemafile: missing schema name")

// FromSchema returns the document describing s.
func FromSchema(s *dynrec.Schema) Document {
	return Document{Name: s.Name(), Fields: s.Fields()}
}

// Compile builds the schema described by the document.
func (d Document) Compile() (*dynrec.Schema, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, ErrMissingName
	}
	return dynrec.Compile(d.Name, d.Fields...)
}

// ParseYAML decodes a single YAML document.
func ParseYAML(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, fmt.Errorf("schemafile: %w", err)
	}
	if err := checkDuplicateKeys(&root); err != nil {
		return Document{}, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("schemafile: %w", err)
	}
	return doc, nil
}

// ParseJSON decodes a JSON document.
func ParseJSON(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("schemafile: %w", err)
	}
	return doc, nil
}

// Load reads path and parses it according to its extension (.yaml, .yml or
// .json).
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		doc, err = ParseYAML(data)
	case ".json":
		doc, err = ParseJSON(data)
	default:
		return Document{}, fmt.Errorf("schemafile: %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadSchema is Load followed by Document.Compile.
func LoadSchema(path string) (*dynrec.Schema, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	s, err := doc.Compile()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
