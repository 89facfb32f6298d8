package display

import (
	"fmt"
	"os"
)

// PrintBanner prints the ASCII art banner to stderr (stdout carries only the
// result record); magenta when color is enabled.
func PrintBanner(color bool) {
	if color {
		fmt.Fprint(os.Stderr, "\033[1;95m")
	}
	fmt.Fprint(os.Stderr, ` _   _ _     ____
| | | | |   / ___|_ __  _ __ ___  ___ ___
| |_| | |   \___ \ '_ \| '__/ _ \/ __/ __|
|  _  | |___ ___) | |_) | | |  __/\__ \__ \
|_| |_|_____|____/| .__/|_|  \___||___/___/
                  |_|
`)
	if color {
		fmt.Fprintln(os.Stderr, "\033[0m")
	}
}
