package hcl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/energridgo/internal/config"
	"github.com/vk/energridgo/internal/ctxlog"
	"github.com/vk/energridgo/internal/fsutil"
	"github.com/vk/energridgo/internal/schema"
)

const extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL network loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file under the given paths and merges their
// blocks into a single network model. Paths may be files or directories.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %v", extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	b := newModelBuilder()
	parser := hclparse.NewParser()
	evalCtx := newEvalContext()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.File
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		if err := b.add(&root, evalCtx); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
		logger.Debug("Decoded HCL file.", "file", file, "techs", len(root.Techs), "locations", len(root.Locations))
	}

	model, err := b.finish()
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.",
		"techs", len(model.Techs),
		"locations", len(model.Locations),
		"links", len(model.Links),
		"series", len(model.Series),
		"timesteps", len(model.Time.Steps),
	)
	return model, nil
}

// findHCLFiles returns the .hcl files under paths without duplicates.
// Directory contents come back in lexical order.
func findHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("network path %s does not exist", path)
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) != extension {
				return nil, fmt.Errorf("network file %s is not a %s file", path, extension)
			}
			add(path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, extension)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return all, nil
}
