package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"remora/internal/history"
	"remora/internal/transcode"
)

var (
	flagPreset string
	flagScale  string
	flagOutput string
)

var transcodeCmd = &cobra.Command{
	Use:   "transcode <file>",
	Short: "Re-encode a local media file",
	Args:  cobra.ExactArgs(1),
	RunE:  transcodeRun,
}

func init() {
	transcodeCmd.Flags().StringVarP(&flagPreset, "preset", "p", "720p", "Preset name (built-in or from presets.toml)")
	transcodeCmd.Flags().StringVarP(&flagScale, "scale", "s", "", "Custom resolution like 1280x720 or 720p (overrides --preset)")
	transcodeCmd.Flags().StringVarP(&flagOutput, "output", "O", "", "Output file (default: <name>_<preset>.<ext> next to the input)")
}

func transcodeRun(cmd *cobra.Command, args []string) error {
	input := args[0]

	var preset transcode.Preset
	if flagScale != "" {
		var err error
		preset, err = transcode.CustomScale(cfg, flagScale)
		if err != nil {
			return err
		}
	} else {
		presets, err := loadPresets()
		if err != nil {
			return err
		}
		preset, err = transcode.Find(presets, flagPreset)
		if err != nil {
			return fmt.Errorf("%v (available: %s)", err, presetNames(presets))
		}
	}

	job := transcode.Job{Input: input, Output: flagOutput, Preset: preset}
	debugf("transcoding %s with preset %s", input, preset.Name)

	out, err := transcode.Run(cmd.Context(), job, func(p transcode.Progress) {
		line := fmt.Sprintf("\r[%5.1f%%]", p.Percent)
		if p.Speed > 0 {
			line += fmt.Sprintf("  %.2fx realtime", p.Speed)
		}
		fmt.Fprintf(os.Stderr, "%-40s", line)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("saved: %s\n", out)

	if store := openHistory(); store != nil {
		defer store.Close()
		var size int64
		if info, statErr := os.Stat(out); statErr == nil {
			size = info.Size()
		}
		rec := history.Record{
			Kind:       "transcode",
			Title:      filepath.Base(out),
			URL:        input,
			OutputPath: out,
			Bytes:      size,
		}
		if err := store.Append(rec); err != nil {
			debugf("recording history: %v", err)
		}
	}
	return nil
}

// presetNames is used in error messages and completion.
func presetNames(presets []transcode.Preset) string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
