package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/logdissect/internal/ctxlog"
)

// Loader loads profile configuration from HCL files.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all top-level blocks from any file.
type fileRoot struct {
	Profiles   []*profileBlock   `hcl:"profile,block"`
	Dissectors []*dissectorBlock `hcl:"dissector,block"`
}

type profileBlock struct {
	RootType string   `hcl:"root_type"`
	Fields   []string `hcl:"fields"`
}

type dissectorBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load parses every .hcl file under the given paths (files or directories)
// and merges the blocks into a single Model. Exactly one profile block must
// exist across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, profile := range root.Profiles {
			if model.Profile != nil {
				return nil, fmt.Errorf("duplicate profile block in %s: only one profile is allowed", file)
			}
			model.Profile = &Profile{RootType: profile.RootType, Fields: profile.Fields}
		}
		for _, block := range root.Dissectors {
			translated, err := l.translateDissector(block)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			model.Dissectors = append(model.Dissectors, translated)
		}
	}

	if model.Profile == nil {
		return nil, fmt.Errorf("no profile block found in %d file(s)", len(files))
	}
	if model.Profile.RootType == "" {
		return nil, fmt.Errorf("profile root_type must not be empty")
	}

	logger.Debug("HCL loading complete.",
		"fields", len(model.Profile.Fields), "dissectors", len(model.Dissectors))
	return model, nil
}

// translateDissector evaluates a dissector block's free-form attributes into
// literal cty values.
func (l *Loader) translateDissector(block *dissectorBlock) (*DissectorBlock, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("dissector %q: %w", block.Type, diags)
	}

	options := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("dissector %q, option %q: %w", block.Type, name, diags)
		}
		options[name] = value
	}
	return &DissectorBlock{Type: block.Type, Options: options}, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if _, wasSeen := seen[path]; !wasSeen {
				allFiles = append(allFiles, path)
				seen[path] = struct{}{}
			}
			continue
		}

		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && filepath.Ext(p) == ".hcl" {
				if _, wasSeen := seen[p]; !wasSeen {
					allFiles = append(allFiles, p)
					seen[p] = struct{}{}
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(allFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found under %v", paths)
	}
	return allFiles, nil
}
