package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/researchaccelerator-hub/channel-insights/aggregate"
	"github.com/researchaccelerator-hub/channel-insights/client"
	"github.com/researchaccelerator-hub/channel-insights/common"
	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/researchaccelerator-hub/channel-insights/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "channel-insights",
		Short: "Aggregate and query YouTube channel video metadata",
		Long: "channel-insights resolves a YouTube channel URL, aggregates metadata and " +
			"statistics for its uploads while streaming progress, and answers " +
			"statistical, time-series and lookup queries over the result.",
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (optional)")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(fetchCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*common.Config, error) {
	cfg, err := common.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	return cfg, nil
}

func buildChannelAPI(ctx context.Context, cfg *common.Config) (client.ChannelAPI, error) {
	if cfg.YouTubeAPIKey == "" {
		return nil, nil
	}
	yt, err := client.NewYouTubeDataClient(cfg.YouTubeAPIKey, time.Duration(cfg.RequestTimeout)*time.Second)
	if err != nil {
		return nil, err
	}
	if err := yt.Connect(ctx); err != nil {
		return nil, err
	}
	return yt, nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api, err := buildChannelAPI(ctx, cfg)
			if err != nil {
				return err
			}
			if api == nil {
				log.Warn().Msg("YouTube API key not configured, channel aggregation disabled")
			}

			var images client.ImageGenerator
			if cfg.GeminiAPIKey != "" {
				gemini, err := client.NewGeminiClient(cfg.GeminiAPIKey)
				if err != nil {
					return err
				}
				images = gemini
			} else {
				log.Warn().Msg("Gemini API key not configured, image generation disabled")
			}

			return server.New(cfg, api, images).ListenAndServe(ctx)
		},
	}
}

func fetchCommand() *cobra.Command {
	var (
		channelURL string
		maxVideos  int
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Aggregate one channel and write the dataset as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api, err := buildChannelAPI(ctx, cfg)
			if err != nil {
				return err
			}
			if api == nil {
				return fmt.Errorf("YouTube API key not configured (YOUTUBE_API_KEY)")
			}
			defer api.Disconnect(context.Background())

			var dataset *model.ChannelDataset
			var failure string
			sink := aggregate.EmitFunc(func(event model.Event) error {
				switch event.Kind {
				case model.EventProgress:
					log.Info().Int("index", event.Index).Int("total", event.Total).Msg("Fetching video")
				case model.EventError:
					failure = event.Message
				case model.EventDone:
					dataset = event.Dataset
				}
				return nil
			})

			aggregate.NewPipeline(api).Run(ctx, channelURL, maxVideos, sink)

			if failure != "" {
				return fmt.Errorf("aggregation failed: %s", failure)
			}

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(dataset); err != nil {
				return fmt.Errorf("failed to write dataset: %w", err)
			}

			log.Info().Int("video_count", dataset.VideoCount).Str("channel", dataset.ChannelTitle).Msg("Dataset written")
			return nil
		},
	}

	cmd.Flags().StringVar(&channelURL, "url", "", "Channel URL (e.g. https://www.youtube.com/@handle)")
	cmd.Flags().IntVar(&maxVideos, "max", 10, "Maximum number of videos to aggregate (clamped to 1-100)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Write the dataset to this file instead of stdout")
	cmd.MarkFlagRequired("url")

	return cmd
}
