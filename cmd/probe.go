package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remora/internal/media"
	"remora/internal/probe"
)

var flagProbeJSON bool

var probeCmd = &cobra.Command{
	Use:   "probe <file>",
	Short: "Show container and stream details for a local file",
	Args:  cobra.ExactArgs(1),
	RunE:  probeRun,
}

func init() {
	probeCmd.Flags().BoolVarP(&flagProbeJSON, "json", "j", false, "Raw JSON report")
}

func probeRun(cmd *cobra.Command, args []string) error {
	report, err := probe.Inspect(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if flagProbeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Printf("%-10s %s\n", "file", report.Format.Filename)
	fmt.Printf("%-10s %s\n", "container", report.Format.FormatName)
	if d := report.Duration(); d > 0 {
		fmt.Printf("%-10s %s\n", "duration", media.FormatDuration(d.Seconds()))
	}
	if size := report.SizeBytes(); size > 0 {
		fmt.Printf("%-10s %s\n", "size", media.FormatSize(size))
	}

	for _, s := range report.Streams {
		switch s.CodecType {
		case "video":
			line := fmt.Sprintf("%-10s #%d %s %dx%d", "video", s.Index, s.CodecName, s.Width, s.Height)
			if fps := s.FrameRate(); fps > 0 {
				line += fmt.Sprintf(" %.3g fps", fps)
			}
			fmt.Println(line)
		case "audio":
			fmt.Printf("%-10s #%d %s %s Hz %dch\n", "audio", s.Index, s.CodecName, s.SampleRate, s.Channels)
		default:
			fmt.Printf("%-10s #%d %s\n", s.CodecType, s.Index, s.CodecName)
		}
	}
	return nil
}
