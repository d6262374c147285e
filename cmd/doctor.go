package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remora/internal/deps"
	"remora/internal/engine"
)

var flagDoctorUpdate bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that yt-dlp, ffmpeg and ffprobe are usable",
	Args:  cobra.NoArgs,
	RunE:  doctorRun,
}

func init() {
	doctorCmd.Flags().BoolVar(&flagDoctorUpdate, "update", false, "Also run the engine self-updater")
}

func doctorRun(cmd *cobra.Command, args []string) error {
	tools := deps.Check(cmd.Context())
	for _, t := range tools {
		if t.Found() {
			fmt.Printf("ok       %-8s %s (%s)\n", t.Name, t.Version, t.Path)
		} else {
			fmt.Printf("missing  %-8s %v\n", t.Name, t.Err)
		}
	}

	if flagDoctorUpdate {
		fmt.Fprintln(os.Stderr, "updating engine…")
		out, err := engine.Update(cmd.Context())
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Println(out)
		}
	}

	if missing := deps.Missing(tools); len(missing) > 0 {
		return fmt.Errorf("missing tools: %v", missing)
	}
	return nil
}
