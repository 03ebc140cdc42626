package cmd

import (
	"fmt"
	"log"

	"BeatWave/config"
	"BeatWave/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the MinIO connection",
	Long:  `Verify that the MinIO object store is reachable and the bucket exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Checking MinIO connection...")

		cfg := config.Load()
		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to initialize MinIO: %v", err)
		}
		fmt.Printf("MinIO connection successful, bucket %s is ready.\n", cfg.MinioBucket)
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
