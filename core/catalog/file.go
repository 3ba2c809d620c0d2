package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/courseadvisor/core/model"
)

// fileCatalog is the on-disk layout: a top-level "courses" list.
type fileCatalog struct {
	Courses []model.Course `json:"courses" yaml:"courses"`
}

// FileSource reads offerings from a YAML or JSON file chosen by extension.
type FileSource struct {
	Path string
}

// NewFileSource returns a source reading path on every call.
func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

// Courses reads and decodes the file.
func (f *FileSource) Courses(context.Context) ([]model.Course, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	return DecodeCourses(data, filepath.Ext(f.Path))
}

// DecodeCourses decodes a catalog document. ext selects the format: ".json"
// or ".yaml"/".yml".
func DecodeCourses(data []byte, ext string) ([]model.Course, error) {
	var doc fileCatalog
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format: %s", ext)
	}
	return doc.Courses, nil
}
