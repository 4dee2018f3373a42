package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corey/pokesrc/internal/domain/lookup"
	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Look up one Pokémon and show its card",
	Long: "Resolves an exact English key (garchomp) or Korean name (한카리아스).\n" +
		"Partial input is not guessed; use `pokesrc suggest` for that.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the card as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Stop()

	ctx, cancel := context.WithTimeout(cmd.Context(), searchTimeout(a.Settings().HTTPTimeout))
	defer cancel()

	card, err := a.Lookup(ctx, query)
	if isEmptyResult(err) {
		fmt.Printf("no result for %q\n", query)
		if hits := a.Suggest(query, 5); len(hits) > 0 {
			names := make([]string, len(hits))
			for i, h := range hits {
				names[i] = h.Name
			}
			fmt.Printf("  did you mean: %s\n", strings.Join(names, ", "))
		}
		return nil
	}
	if err != nil {
		return err
	}

	if searchJSON {
		out, err := formatJSON(card)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	fmt.Print(formatCard(card))
	return nil
}

// searchTimeout covers the two record fetches of a lookup plus the
// concurrent species and usage fetches, with headroom on top.
func searchTimeout(httpTimeout time.Duration) time.Duration {
	return 3*httpTimeout + 5*time.Second
}

// isEmptyResult reports whether err should print the "no result" state.
// A lookup that ran out of time failed to fetch, which is a miss.
func isEmptyResult(err error) bool {
	return errors.Is(err, lookup.ErrNotFound) || errors.Is(err, context.DeadlineExceeded)
}
