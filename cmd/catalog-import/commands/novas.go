package commands

import (
	"os"

	"github.com/maltedev/seminovas-importer/internal/novas"
	"github.com/spf13/cobra"
)

var novasRoot *string

func init() {
	novasRoot = novasCmd.Flags().String("root", "", "Landing page data directory. Defaults to LP_MOTOS_NOVAS_DATA_ROOT.")
	rootCmd.AddCommand(novasCmd)
}

var novasCmd = &cobra.Command{
	Use:   "novas [--root <dir>]",
	Short: "Imports new motorcycles from the landing page data files.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root := *novasRoot
		if root == "" {
			root = cfg.Import.NovasDataRoot
		}

		db, store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		tally, err := novas.NewImporter(store, logger).Import(cmd.Context(), root)
		if err != nil {
			logger.Error("import aborted", "error", err, "total", tally.Total)
			return err
		}

		printTally(os.Stdout, tally)
		return nil
	},
}
