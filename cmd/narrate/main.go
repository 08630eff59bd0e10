// Command narrate converts story text to audio. It reads one JSON request
// from stdin and writes one JSON result to stdout, exiting 1 on failure.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barakah/services/narration"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const requestTimeout = 60 * time.Second

func main() {
	_ = godotenv.Load()
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "narrate",
		Short:         "Narrate dua and story text as audio",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(neuralCmd())
	rootCmd.AddCommand(offlineCmd())
	rootCmd.AddCommand(metadataCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, engine narration.Engine) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	return narration.Run(ctx, engine, cmd.InOrStdin(), cmd.OutOrStdout())
}

func neuralCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neural",
		Short: "Synthesize MP3 audio with OpenAI text-to-speech",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := narration.NewOpenAINeuralEngine(viper.GetString("OPENAI_API_KEY"))
			if err != nil {
				return narration.WriteFailure(cmd.OutOrStdout(), narration.NeuralEngineName, err)
			}
			return run(cmd, engine)
		},
	}
}

func offlineCmd() *cobra.Command {
	cfg := narration.DefaultOfflineConfig()
	cmd := &cobra.Command{
		Use:   "offline",
		Short: "Synthesize WAV audio locally with espeak-ng",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := narration.NewOfflineEngine(cfg, nil)
			if err := engine.Available(); err != nil {
				return narration.WriteFailure(cmd.OutOrStdout(), narration.OfflineEngineName, err)
			}
			return run(cmd, engine)
		},
	}
	cmd.Flags().StringVar(&cfg.Binary, "binary", cfg.Binary, "espeak-ng binary")
	cmd.Flags().IntVarP(&cfg.Speed, "speed", "s", cfg.Speed, "words per minute")
	cmd.Flags().IntVarP(&cfg.Amplitude, "amplitude", "a", cfg.Amplitude, "amplitude, 0 to 200")
	return cmd
}

func metadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "Emit browser speech-synthesis settings without audio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, narration.MetadataEngine{})
		},
	}
}
