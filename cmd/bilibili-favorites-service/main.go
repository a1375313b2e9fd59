package main

import (
	"log"

	"github.com/spf13/cobra"

	"bilibili-favorites-service/internal"
)

func main() {
	var envFile string

	root := &cobra.Command{
		Use:           "bilibili-favorites-service",
		Short:         "HTTP façade over the Bilibili favorite-list API",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := internal.NewApp(envFile)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
	root.Flags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env when present)")

	if err := root.Execute(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}
