// Package games bundles a few reference game descriptions.
package games

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"ludeme/builder"
	"ludeme/game"
)

//go:embed *.yaml
var files embed.FS

// Names returns the bundled games in alphabetical order.
func Names() []string {
	entries, _ := fs.ReadDir(files, ".")
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Source returns the description of a bundled game.
func Source(name string) ([]byte, error) {
	data, err := files.ReadFile(strings.ToLower(name) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no bundled game %q", name)
	}
	return data, nil
}

// Load compiles a bundled game.
func Load(name string) (*game.Game, error) {
	data, err := Source(name)
	if err != nil {
		return nil, err
	}
	g, err := builder.Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return g, nil
}
