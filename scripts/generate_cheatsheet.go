// This "script" generates docs/keybindings/Keybindings.md.
//
// To regenerate it, run:
//   go run scripts/generate_cheatsheet.go

package main

import (
	"github.com/oprsmon/oprs/pkg/cheatsheet"
)

func main() {
	cheatsheet.Generate()
}
