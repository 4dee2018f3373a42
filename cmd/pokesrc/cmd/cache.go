package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/corey/pokesrc/internal/adapters/bbolt"
	"github.com/corey/pokesrc/internal/app"
	"github.com/spf13/cobra"
)

var wipeForce bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk label and record cache",
}

var cacheWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete every cached label and record",
	Args:  cobra.NoArgs,
	RunE:  runCacheWipe,
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries",
	Args:  cobra.NoArgs,
	RunE:  runCachePurge,
}

func init() {
	cacheWipeCmd.Flags().BoolVar(&wipeForce, "force", false, "Skip confirmation prompt")
	cacheCmd.AddCommand(cacheWipeCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
}

// openCache opens the cache file directly. ok is false when there is none.
func openCache() (store *bbolt.Store, ok bool, err error) {
	root := projectRoot()
	_, settings, err := loadSettings(root)
	if err != nil {
		return nil, false, err
	}
	dbPath := settings.CachePath
	if dbPath == "" {
		dbPath = app.NewPaths(root).Cache
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, false, nil
	}
	store, err = bbolt.NewStore(dbPath)
	if err != nil {
		if isDBLockError(err) {
			return nil, false, fmt.Errorf("%w\n%s", err, diagnoseDBLock(root))
		}
		return nil, false, fmt.Errorf("open cache: %w", err)
	}
	return store, true, nil
}

func runCacheWipe(cmd *cobra.Command, args []string) error {
	if !wipeForce {
		fmt.Print("⚠ This will delete all cached labels and records. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	store, ok, err := openCache()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("⚡ no cache to wipe")
		return nil
	}
	defer store.Close()

	if err := store.Wipe(); err != nil {
		return err
	}
	fmt.Println("⚡ cache wiped")
	return nil
}

func runCachePurge(cmd *cobra.Command, args []string) error {
	store, ok, err := openCache()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("⚡ no cache to purge")
		return nil
	}
	defer store.Close()

	n, err := store.Purge()
	if err != nil {
		return err
	}
	fmt.Printf("⚡ %d expired entries removed\n", n)
	return nil
}
