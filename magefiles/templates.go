//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Templates groups targets that operate on the template store.
type Templates mg.Namespace

// Seed inserts the built-in templates into the local store.
func (Templates) Seed() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "templates", "seed")
}

// Repair repairs every stored template in place.
func (Templates) Repair() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "repair", "--all")
}

// Export writes the stored templates to output/templates.yaml.
func (Templates) Export() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "templates", "export", "-o", filepath.Join("output", "templates.yaml"))
}
