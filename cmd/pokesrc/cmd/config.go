package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/pokesrc/internal/app"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows resolved paths, whether a server is running, and the effective settings.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root := projectRoot()
	paths := app.NewPaths(root)
	path, settings, err := loadSettings(root)
	if err != nil {
		return err
	}

	source := "defaults"
	if _, err := os.Stat(path); err == nil {
		source = "file"
	}
	cachePath := settings.CachePath
	if cachePath == "" {
		cachePath = paths.Cache
	}
	server := paint(colorYellow, "✗ not running")
	if portData, err := os.ReadFile(paths.PortFile); err == nil {
		server = paint(colorGreen, "✓ http://127.0.0.1:"+strings.TrimSpace(string(portData)))
	}

	fmt.Println(paint(colorBold, "⚡ pokesrc config"))
	fmt.Printf("  Root:    %s\n", root)
	fmt.Printf("  Config:  %s (%s)\n", path, source)
	fmt.Printf("  Cache:   %s\n", cachePath)
	fmt.Printf("  Server:  %s\n", server)

	data, err := settings.Encode()
	if err != nil {
		return err
	}
	fmt.Println()
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Println("  " + line)
	}
	return nil
}
