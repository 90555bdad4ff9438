//go:build mage

// Package main contains Mage build targets for rfdgen.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/ukaji3/rfdgen/internal/sample"
)

const (
	binDir    = "bin"
	binName   = "rfdgen"
	cmdPkg    = "./cmd/rfdgen"
	sampleDir = "sample"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Sample writes the demo workbooks into sample/.
func Sample() error {
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", sampleDir, err)
	}
	if err := sample.WriteSource(filepath.Join(sampleDir, "allocation.xlsx"), sample.Customers()); err != nil {
		return err
	}
	if err := sample.WriteTemplate(filepath.Join(sampleDir, "template.xlsx")); err != nil {
		return err
	}
	fmt.Printf("Wrote sample workbooks to %s/\n", sampleDir)
	return nil
}

// Demo builds the binary and runs it against the sample workbooks with the
// native pdf engine.
func Demo() error {
	mg.Deps(Build, Sample)
	return sh.RunV(filepath.Join(binDir, binName), "generate",
		"--source", filepath.Join(sampleDir, "allocation.xlsx"),
		"--template", filepath.Join(sampleDir, "template.xlsx"),
		"--output", filepath.Join(sampleDir, "out"),
		"--engine", "native")
}

// Clean removes build output and sample files.
func Clean() error {
	for _, dir := range []string{binDir, sampleDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
