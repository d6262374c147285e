// Package engine assembles and runs download engine invocations. Site
// extraction, format negotiation and retries all happen inside yt-dlp;
// this package only builds option sets from config and translates
// progress events for the task layer.
package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"remora/internal/config"
	"remora/internal/media"
)

// OutputTemplate names downloads <upload_date>_<uploader>_<title>.<ext>
// so files sort chronologically per channel in the output directory.
const OutputTemplate = "%(upload_date)s_%(uploader)s_%(title)s.%(ext)s"

// Format selectors per mode. VideoAudio relies on FormatSort plus an
// mp4 merge instead of a selector string.
const (
	selectorVideoOnly = "bestvideo[ext=mp4]/bestvideo"
	formatSortDefault = "res,ext:mp4:m4a"
)

// Request describes one download.
type Request struct {
	URL        string
	Mode       media.Mode
	FormatID   string // required for media.ModeManual
	CookieFile string // Netscape cookie file, empty for none
	Playlist   bool   // fetch the whole playlist instead of the single entry
}

// Validate checks the request before any engine work starts.
func (r Request) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return errors.New("empty URL")
	}
	if r.Mode == media.ModeManual && strings.TrimSpace(r.FormatID) == "" {
		return errors.New("manual mode requires a format id")
	}
	return nil
}

// New builds the engine command for req with all options applied.
func New(cfg *config.Config, req Request) (*ytdlp.Command, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	outDir, err := cfg.ExpandOutputDir()
	if err != nil {
		return nil, fmt.Errorf("resolving output dir: %w", err)
	}

	dl := ytdlp.New().
		Output(filepath.Join(outDir, OutputTemplate)).
		Retries(strconv.Itoa(cfg.Retries)).
		SocketTimeout(float64(cfg.SocketTimeout)).
		ConcurrentFragments(cfg.ConcurrentFragments).
		Progress().
		Newline()

	switch req.Mode {
	case media.ModeVideoAudio:
		dl = dl.FormatSort(formatSortDefault).MergeOutputFormat("mp4")
	case media.ModeVideoOnly:
		dl = dl.Format(selectorVideoOnly)
	case media.ModeAudioOnly:
		dl = dl.ExtractAudio().AudioFormat("mp3").AudioQuality(cfg.AudioBitrate)
	case media.ModeManual:
		dl = dl.Format(req.FormatID)
	}

	if cfg.UserAgent != "" {
		dl = dl.UserAgent(cfg.UserAgent)
	}
	if cfg.Proxy != "" {
		dl = dl.Proxy(cfg.Proxy)
	}
	if req.CookieFile != "" {
		dl = dl.Cookies(req.CookieFile)
	}
	if cfg.WriteSubtitles && len(cfg.SubtitleLangs) > 0 {
		dl = dl.WriteSubs().SubLangs(strings.Join(cfg.SubtitleLangs, ","))
	}
	if !req.Playlist {
		dl = dl.NoPlaylist()
	}
	if cfg.SponsorBlock {
		dl = dl.SponsorblockMark("all").SponsorblockRemove("sponsor")
	}
	if cfg.EmbedThumbnail {
		dl = dl.WriteThumbnail().EmbedThumbnail().EmbedMetadata()
	}
	// Danmaku arrive through the comment extractor on bilibili only.
	if cfg.DownloadDanmaku && strings.Contains(strings.ToLower(req.URL), "bilibili.com") {
		dl = dl.WriteComments()
	}

	return dl, nil
}

// Progress is a neutral view of one engine progress event.
type Progress struct {
	Status          string
	Percent         float64 // 0..100, 0 when total size unknown
	DownloadedBytes int64
	TotalBytes      int64
	Speed           float64 // bytes per second, 0 when unknown
	ETA             time.Duration
	FragmentIndex   int
	FragmentCount   int
}

// Result is what a finished download reports back.
type Result struct {
	Title      string
	OutputPath string
}

// Download runs the engine for req, forwarding progress events to
// onProgress (which may be nil) at most every 500ms.
func Download(ctx context.Context, cfg *config.Config, req Request, onProgress func(Progress)) (*Result, error) {
	dl, err := New(cfg, req)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"url":  req.URL,
		"mode": req.Mode.String(),
	})
	log.Info("starting download")

	if onProgress != nil {
		dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			onProgress(translate(update))
		})
	}

	res, err := dl.Run(ctx, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("download cancelled")
			return nil, ctx.Err()
		}
		log.WithError(err).Error("download failed")
		return nil, fmt.Errorf("downloading %s: %w", req.URL, err)
	}

	out := &Result{}
	if info, err := res.GetExtractedInfo(); err == nil && len(info) > 0 {
		if info[0].Title != nil {
			out.Title = *info[0].Title
		}
		if info[0].Filename != nil {
			out.OutputPath = *info[0].Filename
		}
	}
	log.WithField("output", out.OutputPath).Info("download finished")
	return out, nil
}

func translate(update ytdlp.ProgressUpdate) Progress {
	p := Progress{
		Status:          string(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
		ETA:             update.ETA(),
		FragmentIndex:   update.FragmentIndex,
		FragmentCount:   update.FragmentCount,
	}
	if p.TotalBytes > 0 {
		p.Percent = float64(p.DownloadedBytes) / float64(p.TotalBytes) * 100
	}
	if update.Status == ytdlp.ProgressStatusFinished {
		p.Percent = 100
	}
	if !update.Started.IsZero() && p.DownloadedBytes > 0 {
		if elapsed := time.Since(update.Started).Seconds(); elapsed > 0 {
			p.Speed = float64(p.DownloadedBytes) / elapsed
		}
	}
	return p
}

// Update runs the engine's self-updater and returns its output.
func Update(ctx context.Context) (string, error) {
	res, err := ytdlp.New().Update(ctx)
	if err != nil {
		return "", fmt.Errorf("updating engine: %w", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}
