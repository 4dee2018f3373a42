package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	suggestLimit int
	suggestJSON  bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial name>",
	Short: "List Pokémon names matching partial input",
	Long: "Matches English keys (case-insensitive), Korean names, and Korean\n" +
		"initial consonants: `pokesrc suggest ㄹㅈ` finds 리자드 and 리자몽.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 0, "max results (default: suggest_limit from config)")
	suggestCmd.Flags().BoolVar(&suggestJSON, "json", false, "print results as JSON")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	// Matching is purely local; no cache needed.
	flagNoCache = true
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Stop()

	hits := a.Suggest(query, suggestLimit)
	if suggestJSON {
		out, err := formatJSON(hits)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	fmt.Print(formatSuggestions(query, hits))
	return nil
}
