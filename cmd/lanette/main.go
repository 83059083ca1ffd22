// Lanette queries a mod-layered Pokémon data tree.
//
// Usage:
//
//	# Compiled rules of a format
//	lanette ruletable gen7ou
//
//	# Can Eevee know Curse and Wish together in OU?
//	lanette learnset Eevee Curse Wish --rules gen7ou
//
//	# Canonical form of a custom format
//	lanette validate-format "gen7ou@@@-Pikachu,+Uber"
//
//	# Random dexsearch parameters shared by 3 to 10 Pokémon
//	lanette params --count 2 --min 3 --max 10 --format json
//
//	# Reload on data changes
//	lanette watch --data-dir ./data
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/DatSpookTho/Lanette/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Flag and argument errors; commands report their own.
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
