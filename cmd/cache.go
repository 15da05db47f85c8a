package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the on-disk OSM cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cached catalog age and extract files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := buildCache()
		if err != nil {
			return err
		}

		fmt.Printf("Cache directory: %s\n", cache.Dir())
		if age, ok := cache.IndexAge(); ok {
			fmt.Printf("Catalog index age: %s (freshness window %d days)\n",
				age.Round(time.Minute), cfg.Catalog.FreshnessDays)
		} else {
			fmt.Println("Catalog index: not cached")
		}

		extracts, err := cache.ListExtracts()
		if err != nil {
			return err
		}
		if len(extracts) == 0 {
			fmt.Println("No cached extracts")
			return nil
		}

		fmt.Printf("\nCached extracts: %d\n\n", len(extracts))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "FILE\tSIZE\tMODIFIED")
		for _, e := range extracts {
			_, _ = fmt.Fprintf(w, "%s\t%.1f MB\t%s\n",
				e.Name, float64(e.SizeBytes)/(1024*1024), e.ModTime.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var cacheClearOlderThanDays int

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached extract files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := buildCache()
		if err != nil {
			return err
		}

		olderThan := time.Duration(cacheClearOlderThanDays) * 24 * time.Hour
		removed, freed, err := cache.ClearExtracts(olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d extract(s), freed %.1f MB\n", removed, float64(freed)/(1024*1024))
		return nil
	},
}

func init() {
	cacheClearCmd.Flags().IntVar(&cacheClearOlderThanDays, "older-than", 0,
		"only delete extracts older than this many days (0 = all)")

	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
