package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/ser-api/internal/classifier"
	"github.com/Brownie44l1/ser-api/internal/render"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <audio-file>",
		Short: "Classify a local audio file and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			c, srv, err := loadClassifier(cfg, logger, nil)
			if err != nil {
				return err
			}
			defer srv.Close()

			result, err := c.Classify(data)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}

func newSpectrogramCmd() *cobra.Command {
	var width, height uint

	cmd := &cobra.Command{
		Use:   "spectrogram <audio-file> <out.png>",
		Short: "Write the model's input spectrogram as a PNG",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			frontend := classifier.NewFrontend(cfg.Audio.SampleRate, featureConfig(cfg), logger, nil)
			spec, err := frontend.Spectrogram(data)
			if err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			if err := render.PNG(out, spec, width, height); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d of %d frames from audio)\n", args[1], spec.Valid, spec.Frames)
			return nil
		},
	}
	cmd.Flags().UintVar(&width, "width", 0, "output width in pixels (0 keeps aspect)")
	cmd.Flags().UintVar(&height, "height", 0, "output height in pixels (0 keeps aspect)")
	return cmd
}
