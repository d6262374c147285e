package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"remora/internal/config"
	"remora/internal/history"
	"remora/internal/media"
)

var (
	flagHistoryN     int
	flagHistoryClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished downloads and transcodes",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryN, "number", "n", 20, "How many records to show, 0 for all")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every record")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := config.HistoryPath()
	if err != nil {
		return fmt.Errorf("resolving history path: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	if flagHistoryClear {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Println("history cleared")
		return nil
	}

	records, err := store.Recent(flagHistoryN)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("no history yet")
		return nil
	}

	for _, r := range records {
		size := ""
		if r.Bytes > 0 {
			size = media.FormatSize(r.Bytes)
		}
		fmt.Printf("%s  %-9s  %-40s  %8s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Kind, clip(r.Title, 40), size, r.OutputPath)
	}
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
