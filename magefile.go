//go:build mage

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/magefile/mage/sh"
)

// Build builds Boss Booker for Linux
func Build() error {
	fmt.Println("Building Boss Booker for Linux...")
	env := map[string]string{
		"GOOS":   "linux",
		"GOARCH": "amd64",
	}
	return sh.RunWith(env, "go", "build", "-o", "bossbooker-linux-amd64", "./cmd/bossbooker")
}

// BuildLocal builds Boss Booker for current platform
func BuildLocal() error {
	fmt.Printf("Building Boss Booker for %s/%s...\n", runtime.GOOS, runtime.GOARCH)
	return sh.Run("go", "build", "-o", "bossbooker", "./cmd/bossbooker")
}

// Test runs tests
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-v", "./...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	os.Remove("bossbooker")
	os.Remove("bossbooker-linux-amd64")
	return nil
}

// Update upgrades all Go dependencies
func Update() error {
	fmt.Println("Updating dependencies...")
	if err := sh.Run("go", "get", "-u", "./..."); err != nil {
		return err
	}
	return sh.Run("go", "mod", "tidy")
}

// Fmt runs gofmt on all Go files
func Fmt() error {
	fmt.Println("Formatting code...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet on all Go files
func Vet() error {
	fmt.Println("Vetting code...")
	return sh.Run("go", "vet", "./...")
}

// Deps downloads dependencies
func Deps() error {
	fmt.Println("Downloading dependencies...")
	return sh.Run("go", "mod", "download")
}

// Tidy tidies go.mod
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}
