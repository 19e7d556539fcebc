package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears
// whichever backend the global flags select.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.noCache {
				printWarning("Caching is disabled, nothing to clear")
				return nil
			}
			cc, err := c.newCache(ctx)
			if err != nil {
				return err
			}
			defer cc.Close()

			count, err := cache.Clear(ctx, cc)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			switch {
			case count < 0:
				printSuccess("Cleared cache")
			case count == 0:
				printInfo("Cache is empty")
			default:
				printSuccess("Cleared %d cached entries", count)
			}
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.badgerDir != "" {
				fmt.Println(c.badgerDir)
				return nil
			}
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
