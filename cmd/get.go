package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remora/internal/cookies"
	"remora/internal/engine"
	"remora/internal/history"
	"remora/internal/media"
)

var (
	flagMode     string
	flagFormat   string
	flagPlaylist bool
	flagCookies  string
)

var getCmd = &cobra.Command{
	Use:   "get <url>...",
	Short: "Download URLs without the interactive interface",
	Args:  cobra.MinimumNArgs(1),
	RunE:  getRun,
}

func init() {
	getCmd.Flags().StringVarP(&flagMode, "mode", "m", "video", "What to fetch: video | video-only | audio | manual")
	getCmd.Flags().StringVarP(&flagFormat, "format", "f", "", "Explicit format id (implies --mode manual)")
	getCmd.Flags().BoolVar(&flagPlaylist, "playlist", false, "Allow playlist expansion")
	getCmd.Flags().StringVar(&flagCookies, "cookies", "", "Cookie file (default: looked up by domain)")
}

func getRun(cmd *cobra.Command, args []string) error {
	mode, err := media.ParseMode(flagMode)
	if err != nil {
		return err
	}
	if flagFormat != "" {
		mode = media.ModeManual
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	failed := 0
	for _, url := range args {
		req := engine.Request{
			URL:      url,
			Mode:     mode,
			FormatID: flagFormat,
			Playlist: flagPlaylist,
		}
		req.CookieFile = flagCookies
		if req.CookieFile == "" {
			req.CookieFile = lookupCookies(url)
		}

		if err := downloadOne(cmd, req, store); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", url, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", failed, len(args))
	}
	return nil
}

func downloadOne(cmd *cobra.Command, req engine.Request, store *history.Store) error {
	fmt.Fprintf(os.Stderr, "downloading %s\n", req.URL)

	var lastTotal int64
	res, err := engine.Download(cmd.Context(), cfg, req, func(p engine.Progress) {
		if p.TotalBytes > lastTotal {
			lastTotal = p.TotalBytes
		}
		line := fmt.Sprintf("\r[%5.1f%%] %s", p.Percent, media.FormatSize(p.DownloadedBytes))
		if p.TotalBytes > 0 {
			line += " / " + media.FormatSize(p.TotalBytes)
		}
		if p.Speed > 0 {
			line += "  " + media.FormatSpeed(p.Speed)
		}
		if p.ETA > 0 {
			line += "  eta " + media.FormatDuration(p.ETA.Seconds())
		}
		fmt.Fprintf(os.Stderr, "%-70s", line)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	fmt.Printf("saved: %s\n", res.OutputPath)
	if store != nil && cfg.History {
		title := res.Title
		if title == "" {
			title = req.URL
		}
		rec := history.Record{
			Kind:       "download",
			Title:      title,
			URL:        req.URL,
			OutputPath: res.OutputPath,
			Bytes:      lastTotal,
		}
		if err := store.Append(rec); err != nil {
			debugf("recording history: %v", err)
		}
	}
	return nil
}

// lookupCookies finds a cookie file for the URL's domain, converting
// raw dumps to Netscape format. Missing cookies are not an error.
func lookupCookies(url string) string {
	domain, err := cookies.ExtractDomain(url)
	if err != nil {
		return ""
	}
	dir, err := cfg.ExpandCookieDir()
	if err != nil {
		return ""
	}
	path, err := cookies.Find(dir, domain)
	if err != nil {
		return ""
	}
	converted, err := cookies.Ensure(path, domain)
	if err != nil {
		debugf("cookie file %s unusable: %v", path, err)
		return ""
	}
	debugf("using cookies: %s", converted)
	return converted
}
