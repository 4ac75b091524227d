// Package registry discovers resources on disk, either by scanning a
// directory or by reading an explicit manifest, and registers them with the
// manager as file-backed blobs.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"gopkg.in/yaml.v3"

	"resourced/internal/blob"
	"resourced/internal/common/fsutil"
	"resourced/internal/manager"
	"resourced/pkg/types"
)

// ScanDir lists every regular file under dir as a registrable resource.
// Name is the filename, kind is "blob", and the cost estimate is the file
// size on disk. Dotfiles are skipped.
func ScanDir(dir string) ([]types.Resource, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var specs []types.Resource
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := filepath.Join(abs, e.Name())
		specs = append(specs, types.Resource{
			Name:      e.Name(),
			Kind:      "blob",
			Path:      p,
			CostBytes: fsutil.FileSize(p),
		})
	}
	return specs, nil
}

// manifest is the on-disk shape of an explicit resource list.
type manifest struct {
	Resources []manifestEntry `yaml:"resources"`
}

type manifestEntry struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
	// Cost is a human-readable size ("2GiB", "512MB"). Empty means "use the
	// file size on disk".
	Cost string `yaml:"cost"`
}

// LoadManifest reads a YAML manifest of resources. Costs given as strings
// are parsed with go-units (RAM-style, 1024-based).
func LoadManifest(path string) ([]types.Resource, error) {
	base, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(base)
	if err != nil {
		return nil, err
	}
	var mf manifest
	if err := yaml.Unmarshal(b, &mf); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	specs := make([]types.Resource, 0, len(mf.Resources))
	for i, e := range mf.Resources {
		if e.Name == "" {
			return nil, fmt.Errorf("manifest entry %d: name is required", i)
		}
		if e.Path == "" {
			return nil, fmt.Errorf("manifest entry %q: path is required", e.Name)
		}
		p, err := fsutil.ExpandHome(e.Path)
		if err != nil {
			return nil, err
		}
		kind := e.Kind
		if kind == "" {
			kind = "blob"
		}
		var cost int64
		if e.Cost != "" {
			cost, err = units.RAMInBytes(e.Cost)
			if err != nil {
				return nil, fmt.Errorf("manifest entry %q: bad cost %q: %w", e.Name, e.Cost, err)
			}
		} else {
			cost = fsutil.FileSize(p)
		}
		specs = append(specs, types.Resource{Name: e.Name, Kind: kind, Path: p, CostBytes: cost})
	}
	return specs, nil
}

// RegisterAll registers each spec with mgr using a blob builder. Specs with
// a zero cost fall back to the current file size.
func RegisterAll(mgr *manager.Manager, specs []types.Resource) error {
	for _, s := range specs {
		cost := s.CostBytes
		if cost <= 0 {
			cost = fsutil.FileSize(s.Path)
		}
		if err := mgr.Register(s.Name, s.Kind, cost, blob.Builder(s.Path)); err != nil {
			return fmt.Errorf("register %q: %w", s.Name, err)
		}
	}
	return nil
}
