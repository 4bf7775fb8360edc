package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solen/mdkit/internal/cache"
	"github.com/solen/mdkit/internal/config"
	"github.com/solen/mdkit/internal/wire"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the render cache",
	}
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

// openCache returns the app's cache, opening it on demand so the
// maintenance commands work even when cache.enabled is off.
func openCache(cmd *cobra.Command, app *wire.App) (*cache.Cache, func(), error) {
	if app.Cache != nil {
		return app.Cache, func() {}, nil
	}
	c, err := cache.Open(cmd.Context(), config.ResolveCachePath(app.Cfg))
	if err != nil {
		return nil, nil, err
	}
	return c, func() { _ = c.Close() }, nil
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			c, done, err := openCache(cmd, app)
			if err != nil {
				return err
			}
			defer done()

			st, err := c.Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path:    %s\n", config.ResolveCachePath(app.Cfg))
			fmt.Fprintf(out, "entries: %d\n", st.Entries)
			fmt.Fprintf(out, "bytes:   %d\n", st.Bytes)
			if !st.Oldest.IsZero() {
				fmt.Fprintf(out, "oldest:  %s\n", st.Oldest.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached fragments",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			c, done, err := openCache(cmd, app)
			if err != nil {
				return err
			}
			defer done()

			n, err := c.Prune(cmd.Context(), 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d entries\n", n)
			return nil
		},
	}
}
