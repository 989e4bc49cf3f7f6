package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"wavehub/config"
	"wavehub/logger"
	"wavehub/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check the MinIO connection",
	Long:  `Connect to MinIO with the configured settings, ensure the buckets exist and list them.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(logger.Config{Level: cfg.LogLevel})
		defer logger.Sync()

		fmt.Printf("MinIO: %s (SSL: %v)\n", cfg.MinioEndpoint, cfg.MinioUseSSL)

		store, err := storage.NewMinioStore(cfg)
		if err != nil {
			log.Fatalf("failed to connect to MinIO: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Fatalf("MinIO ping failed: %v", err)
		}
		fmt.Printf("connected, buckets %s and %s are ready\n", cfg.MinioAudioBucket, cfg.MinioAvatarBucket)
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
