package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/signalis/connector/internal/enrichment"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show enrichment cache statistics",
	Run: func(_ *cobra.Command, _ []string) {
		cacheStats()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the enrichment cache",
	Run: func(cmd *cobra.Command, _ []string) {
		cacheClear(cmd)
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheClearCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func cacheService() (*enrichment.Service, error) {
	config, err := getConfig()
	if err != nil {
		return nil, err
	}

	// No provider keys needed, the cache commands only touch the store.
	return enrichment.New(enrichment.Config{CachePath: config.Enrichment.CachePath}, zap.NewNop()), nil
}

func cacheStats() {
	service, err := cacheService()
	if err != nil {
		log.Fatalf("getting a config: %s", err)
	}

	stats := service.CacheStats()

	fmt.Printf("enrichment cache: %s\n", stats.Path)
	fmt.Printf("  total entries:     %d\n", stats.Total)
	fmt.Printf("  fresh (< 90 days): %d\n", stats.Fresh)
	fmt.Printf("  stale (> 90 days): %d\n", stats.Stale)

	if len(stats.BySource) > 0 {
		fmt.Println("  by source:")

		sources := make([]string, 0, len(stats.BySource))
		for source := range stats.BySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)

		for _, source := range sources {
			fmt.Printf("    %s: %d\n", source, stats.BySource[source])
		}
	}
}

func cacheClear(cmd *cobra.Command) {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		confirm := promptui.Prompt{
			Label:     "Clear all cached enrichment results",
			IsConfirm: true,
		}
		if _, err := confirm.Run(); err != nil {
			fmt.Println("cancelled")
			return
		}
	}

	service, err := cacheService()
	if err != nil {
		log.Fatalf("getting a config: %s", err)
	}

	if err := service.ClearCache(); err != nil {
		log.Fatalf("clearing the cache: %s", err)
	}

	fmt.Println("cache cleared")
}
