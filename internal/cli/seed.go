package cli

import (
	"log"
	"os"

	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/catalog"
	"timed-quiz/internal/infra/postgres"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads a catalog file into the question_sets table.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a question catalog into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.Quiz.Catalog
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			c, err := catalog.Decode(data)
			if err != nil {
				return err
			}

			db, err := openBun(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := postgres.Seed(cmd.Context(), db, c)
			if err != nil {
				return err
			}
			log.Printf("seeded %d categories from %s", n, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog JSON file (defaults to quiz.catalog)")
	return cmd
}
