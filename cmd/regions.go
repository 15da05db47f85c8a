package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/velosafe/safety-cli/internal/route"
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Inspect region catalog resolution",
}

var regionsResolveFlags struct {
	routeFile string
	bufferKm  float64
}

var regionsResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show which regions a route would select, without downloading",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := route.Load(regionsResolveFlags.routeFile)
		if err != nil {
			return err
		}

		resolver, _, err := buildResolver()
		if err != nil {
			return err
		}

		bufferKm := cfg.Analysis.BufferKm
		if cmd.Flags().Changed("buffer-km") {
			bufferKm = regionsResolveFlags.bufferKm
		}

		regions, err := resolver.Select(cmd.Context(), rt.Points, bufferKm)
		if err != nil {
			return err
		}

		fmt.Printf("Route %q selects %d region(s):\n\n", rt.Name, len(regions))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "ID\tNAME\tFILE\tSIZE")
		for _, r := range regions {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Filename(), sizeHint(r.SizeHint))
		}
		return w.Flush()
	},
}

func sizeHint(bytes int64) string {
	if bytes <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
}

func init() {
	f := regionsResolveCmd.Flags()
	f.StringVar(&regionsResolveFlags.routeFile, "route", "", "route file (.gpx or .csv) (required)")
	f.Float64Var(&regionsResolveFlags.bufferKm, "buffer-km", 0, "corridor buffer around the route in km (default from config)")
	_ = regionsResolveCmd.MarkFlagRequired("route")

	regionsCmd.AddCommand(regionsResolveCmd)
	rootCmd.AddCommand(regionsCmd)
}
