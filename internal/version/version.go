// Package version holds the sqlic version and the CLI banners.
package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner shown by the sqlic commands.
func asciiArtTpl() string {
	asciiArt := `
               ___
   _________ _/ (_)____
  / ___/ __ '/ / / ___/
 (__  ) /_/ / / / /__
/____/\__, /_/_/\___/
        /_/
%s ` + Version + `
SQLite bindings for Go, no cgo required`

	asciiArt = asciiArt[1:] // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset

	return asciiArt
}

// ShellVersion returns the banner for the sqlic shell.
func ShellVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Shell")
}

// BenchVersion returns the banner for sqlicbench.
func BenchVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Bench")
}
