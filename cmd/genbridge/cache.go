package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BaSui01/genbridge/internal/cache"
)

// =============================================================================
// 🧊 cache
// =============================================================================

var errNoCache = errors.New("redis cache is not available (set redis.enabled or GENBRIDGE_REDIS_ENABLED)")

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Inspect and prune the stock search cache"}

	withCache := func(fn func(*cobra.Command, *cache.Manager, []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if a.cache == nil {
				return errNoCache
			}
			return fn(cmd, a.cache, args)
		}
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show key count and in-process hit rate",
		Args:  cobra.NoArgs,
		RunE: withCache(func(cmd *cobra.Command, m *cache.Manager, _ []string) error {
			st, err := m.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "keys: %d\nhits: %d\nmisses: %d\nhit rate: %.2f\n",
				st.Keys, st.Hits, st.Misses, st.HitRate())
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <key>...",
		Short: "Delete cache entries (keys without the configured prefix)",
		Args:  cobra.MinimumNArgs(1),
		RunE: withCache(func(cmd *cobra.Command, m *cache.Manager, args []string) error {
			n, err := m.Exists(cmd.Context(), args...)
			if err != nil {
				return err
			}
			if err := m.Delete(cmd.Context(), args...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d of %d keys\n", n, len(args))
			return nil
		}),
	}

	expire := &cobra.Command{
		Use:   "expire <key> <ttl>",
		Short: "Change the TTL of one cache entry",
		Args:  cobra.ExactArgs(2),
		RunE: withCache(func(cmd *cobra.Command, m *cache.Manager, args []string) error {
			ttl, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("invalid ttl %q: %w", args[1], err)
			}
			n, err := m.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("cache key %q not found", args[0])
			}
			if err := m.Expire(cmd.Context(), args[0], ttl); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s expires in %s\n", args[0], ttl)
			return nil
		}),
	}

	cmd.AddCommand(stats, del, expire)
	return cmd
}
