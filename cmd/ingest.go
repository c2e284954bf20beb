package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sahara-sahaya/relief-cli/internal/dataset"
	"github.com/sahara-sahaya/relief-cli/internal/reader"
	"github.com/sahara-sahaya/relief-cli/internal/schema"
)

var (
	ingestConfirm bool
	ingestAliases string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Normalize a relief-centre spreadsheet and optionally replace the dataset",
	Long:  "Reads a CSV, XLS, or XLSX file with arbitrary column names, maps it onto the canonical 8-column schema, and reports the surviving row count. Pass --confirm to atomically replace the persisted dataset.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}

		table, err := reader.ReadTable(data, path)
		if err != nil {
			return eris.Wrapf(err, "could not read file %s", path)
		}

		var extra map[string][]string
		if ingestAliases != "" {
			extra, err = schema.LoadAliases(ingestAliases)
			if err != nil {
				return err
			}
		}

		records := schema.NormalizeWith(table, extra)
		if len(records) == 0 {
			zap.L().Warn("no valid records after cleaning and validation",
				zap.String("file", path),
			)
		} else {
			zap.L().Info("normalized upload",
				zap.String("file", path),
				zap.Int("rows", len(records)),
			)
		}

		if !ingestConfirm {
			fmt.Printf("%d verified relief-centre rows (dry run; pass --confirm to replace %s)\n",
				len(records), cfg.Dataset.Path)
			return nil
		}

		store := dataset.NewStore(cfg.Dataset.Path)
		if err := store.Replace(records); err != nil {
			return err
		}
		fmt.Printf("dataset saved: %d rows written to %s\n", len(records), cfg.Dataset.Path)
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestConfirm, "confirm", false, "replace the persisted dataset")
	ingestCmd.Flags().StringVar(&ingestAliases, "aliases", "", "YAML file with extra header aliases")
	rootCmd.AddCommand(ingestCmd)
}
