package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/velosafe/safety-cli/internal/criteria"
)

var criteriaCmd = &cobra.Command{
	Use:   "criteria",
	Short: "Manage risk scoring criteria",
}

var criteriaInitFlags struct {
	output string
	force  bool
}

var criteriaInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default criteria file for customization",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := criteriaInitFlags.output
		if _, err := os.Stat(path); err == nil && !criteriaInitFlags.force {
			return eris.Errorf("%s already exists (use --force to overwrite)", path)
		}

		data, err := criteria.DefaultYAML()
		if err != nil {
			return err
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return eris.Wrapf(err, "create directory %s", dir)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", path)
		}

		fmt.Printf("Wrote default criteria to %s\n", path)
		return nil
	},
}

var criteriaShowFile string

var criteriaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective criteria after merging a file over the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := criteriaShowFile
		if path == "" {
			path = cfg.Analysis.CriteriaFile
		}

		crit := criteria.LoadOrDefault(path)
		if err := crit.Validate(); err != nil {
			return err
		}

		data, err := yaml.Marshal(crit)
		if err != nil {
			return eris.Wrap(err, "marshal criteria")
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	criteriaInitCmd.Flags().StringVar(&criteriaInitFlags.output, "output", "criteria.yaml", "destination file")
	criteriaInitCmd.Flags().BoolVar(&criteriaInitFlags.force, "force", false, "overwrite an existing file")
	criteriaShowCmd.Flags().StringVar(&criteriaShowFile, "file", "", "criteria file to merge over the defaults")

	criteriaCmd.AddCommand(criteriaInitCmd)
	criteriaCmd.AddCommand(criteriaShowCmd)
	rootCmd.AddCommand(criteriaCmd)
}
