//go:build mage

package main

import (
	"github.com/ZenLiuCN/swigload"
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

var Default = Test

// Test runs the unit tests, skipping the ones that need swig and g++.
func Test() error {
	return sh.RunV("go", "test", "-short", "./...")
}

// Check reports whether swig, g++ and python3-config are installed.
func Check() error {
	if err := swigload.CheckRequirements(); err != nil {
		return err
	}
	return sh.RunV("swig", "-version")
}

// Integration builds and loads real modules.
func Integration() error {
	mg.Deps(Check)
	return sh.RunWithV(map[string]string{"CGO_ENABLED": "0"}, "go", "test", "-count=1", "./...")
}

// Install puts the compiler tool into GOBIN.
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./compiler")
}
