package main

import (
	"os"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	for _, envFile := range []string{".env", "../../.env"} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	hlog.SetLevel(logLevel(stringEnv("DRONESWARM_LOG_LEVEL", "info")))

	rootCmd := &cobra.Command{
		Use:           "droneswarm",
		Short:         "Batched drone swarm environment for reinforcement learning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newServeCmd(), newRolloutCmd())

	if err := rootCmd.Execute(); err != nil {
		hlog.Errorf("droneswarm: %v", err)
		os.Exit(1)
	}
}
