package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var typesJSON bool

var typesCmd = &cobra.Command{
	Use:   "types <type> [type]",
	Short: "Show type matchups for one or two types",
	Long:  "Accepts one or two English type tags, space or comma separated: `pokesrc types ground flying`.",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTypes,
}

func init() {
	typesCmd.Flags().BoolVar(&typesJSON, "json", false, "print the report as JSON")
}

func runTypes(cmd *cobra.Command, args []string) error {
	var tags []string
	for _, a := range args {
		for _, t := range strings.Split(a, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	flagNoCache = true
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Stop()

	report, err := a.Types(tags)
	if err != nil {
		return err
	}
	if typesJSON {
		out, err := formatJSON(report)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	}
	fmt.Print(formatTypeReport(report))
	return nil
}
