package commands

import (
	"fmt"
	"os"

	"gestionale/internal/config"
	"gestionale/internal/seed"
	"gestionale/internal/server"

	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo fixtures (embedded by default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.StorageDriver == config.StorageMemory {
				return fmt.Errorf("seed needs a persistent backend; use `serve --seed` with STORAGE_DRIVER=%s", config.StorageMemory)
			}

			fixtures, err := loadFixtures(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := server.OpenStorage(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			summary, err := seed.Apply(ctx, st.SeedStores(), fixtures, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d categories, %d products, %d customers, %d sites, %d purchases, %d quotes.\n",
				summary.Categories, summary.Products, summary.Customers, summary.Sites, summary.Purchases, summary.Quotes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixtures file")
	return cmd
}

func loadFixtures(file string) (*seed.Fixtures, error) {
	if file == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return seed.Load(data)
}
