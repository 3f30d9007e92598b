package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
	SourceEnv     SourceKind = "env"
)

// Source is where a config value was last set.
type Source struct {
	Kind   SourceKind
	Name   string // defaults set name, or the environment variable
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> last writer
	Files   []string          // loaded files, includes before includers
	Path    string            // main config path, even if it does not exist
}

// DefaultConfigPath is $XDG_CONFIG_HOME/deskshell/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("failed to resolve config directory")
	}
	return filepath.Join(xdg.ConfigHome, "deskshell", "config.yaml"), nil
}

// Load reads the merged configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources loads config and returns per-key sources for introspection.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath layers defaults, the file at path with its includes, and
// DESKSHELL_* environment overrides. A missing file is not an error.
func LoadFromPath(path string) (*LoadResult, error) {
	merged := newLayer()
	var files []string

	if _, err := os.Stat(path); err == nil {
		fl := &fileLoader{seen: map[string]bool{}}
		fileLayer, err := fl.load(path)
		if err != nil {
			return nil, err
		}
		merged.over(fileLayer)
		files = fl.files
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	envRaw, envSources, err := loadEnvOverrides()
	if err != nil {
		return nil, err
	}
	merged.over(layer{raw: envRaw, sources: envSources})

	cfg, err := BuildEffectiveConfig(merged.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, withSource(err, merged.sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: merged.sources,
		Files:   files,
		Path:    path,
	}, nil
}

// layer is a set of raw values plus the position each key was read from.
type layer struct {
	raw     RawConfig
	sources map[string]Source
}

func newLayer() layer {
	return layer{sources: map[string]Source{}}
}

// over applies top on l; keys set in top win.
func (l *layer) over(top layer) {
	l.raw = l.raw.merge(top.raw)
	maps.Copy(l.sources, top.sources)
}

// fileLoader walks a config file and its includes depth first. A file
// reached twice through different includes is merged once; a file reached
// again through its own include chain is a cycle.
type fileLoader struct {
	seen  map[string]bool
	chain []string
	files []string
}

func (fl *fileLoader) load(path string) (layer, error) {
	canon, err := canonicalPath(path)
	if err != nil {
		return layer{}, err
	}
	if slices.Contains(fl.chain, canon) {
		return layer{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(fl.chain, " -> "), canon)
	}
	if fl.seen[canon] {
		return newLayer(), nil
	}
	fl.seen[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return layer{}, fmt.Errorf("%s: failed to read: %w", canon, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer{}, fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return layer{}, fmt.Errorf("%s: %w", canon, err)
	}

	root := rootMapping(&doc)
	out := newLayer()

	fl.chain = append(fl.chain, canon)
	for _, inc := range includeNodes(root) {
		paths, err := expandInclude(canon, inc.Value)
		if err != nil {
			return layer{}, fmt.Errorf("%s:%d:%d: include %q: %w", canon, inc.Line, inc.Column, inc.Value, err)
		}
		for _, p := range paths {
			sub, err := fl.load(p)
			if err != nil {
				return layer{}, err
			}
			out.over(sub)
		}
	}
	fl.chain = fl.chain[:len(fl.chain)-1]

	// The including file wins over everything it includes.
	positions := map[string]Source{}
	recordPositions(root, canon, "", positions)
	out.over(layer{raw: own, sources: positions})
	fl.files = append(fl.files, canon)

	return out, nil
}

func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// canonicalPath resolves symlinks when it can and falls back to the
// absolute path otherwise.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// expandInclude resolves an include entry relative to the including file.
// A directory expands to its .yaml/.yml files in name order.
func expandInclude(from, include string) ([]string, error) {
	path, err := resolveInclude(from, include)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				files = append(files, filepath.Join(path, ent.Name()))
			}
		}
	}
	return files, nil
}

func resolveInclude(from, include string) (string, error) {
	if include == "" {
		return "", fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		include = filepath.Join(home, strings.TrimPrefix(include[1:], "/"))
	}
	if filepath.IsAbs(include) {
		return include, nil
	}
	return filepath.Join(filepath.Dir(from), include), nil
}

func rootMapping(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

// recordPositions stores the line and column of every mapping key below
// node, keyed by dotted path. Sequences are recorded as a whole.
func recordPositions(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil {
		return
	}
	at := func(n *yaml.Node) Source {
		return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			path := node.Content[i].Value
			if prefix != "" {
				path = prefix + "." + path
			}
			val := node.Content[i+1]
			out[path] = at(val)
			recordPositions(val, file, path, out)
		}
	case yaml.SequenceNode:
		if prefix != "" {
			out[prefix] = at(node)
		}
	}
}

// includeNodes returns the scalar entries of the top-level include key.
func includeNodes(root *yaml.Node) []*yaml.Node {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []*yaml.Node{val}
		case yaml.SequenceNode:
			var out []*yaml.Node
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					out = append(out, item)
				}
			}
			return out
		}
		return nil
	}
	return nil
}

// withSource fills in the file position of a validation error's key.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return err
}
