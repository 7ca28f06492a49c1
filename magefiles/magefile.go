//go:build mage

// Package main provides build targets for the arrayapi project using Mage.
//
// Usage:
//
//	mage build     Compile the arrayapi binary to bin/
//	mage test      Run all tests with the race detector
//	mage golden    Regenerate golden files
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install arrayapi to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "arrayapi"
	binaryDir  = "bin"
	cmdDir     = "./cmd/arrayapi"
)

// goldenPackages hold goldie fixtures under testdata/golden.
var goldenPackages = []string{
	"./internal/tensor",
	"./cmd/arrayapi",
}

// Build compiles the arrayapi binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Golden rewrites the golden files from the current output. Review the
// diff before committing: the promotion table is versioned.
func Golden() error {
	for _, pkg := range goldenPackages {
		if err := sh.RunV(binGo, "test", pkg, "-update"); err != nil {
			return err
		}
	}
	return nil
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
