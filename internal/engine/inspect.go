package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"remora/internal/config"
	"remora/internal/media"
)

// infoJSON mirrors the subset of the engine's metadata dump the
// format picker needs. Anything the extractor omits stays zero.
type infoJSON struct {
	ID         string       `json:"id"`
	Title      string       `json:"title"`
	Uploader   string       `json:"uploader"`
	Channel    string       `json:"channel"`
	UploadDate string       `json:"upload_date"`
	Duration   float64      `json:"duration"`
	WebpageURL string       `json:"webpage_url"`
	Formats    []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	FormatNote     string  `json:"format_note"`
}

// Inspect fetches metadata for rawURL without downloading anything.
// cookieFile may be empty.
func Inspect(ctx context.Context, cfg *config.Config, rawURL, cookieFile string) (media.Info, error) {
	dl := ytdlp.New().
		SkipDownload().
		PrintJSON().
		NoPlaylist().
		SocketTimeout(float64(cfg.SocketTimeout))

	if cfg.UserAgent != "" {
		dl = dl.UserAgent(cfg.UserAgent)
	}
	if cfg.Proxy != "" {
		dl = dl.Proxy(cfg.Proxy)
	}
	if cookieFile != "" {
		dl = dl.Cookies(cookieFile)
	}

	logrus.WithField("url", rawURL).Debug("inspecting")

	res, err := dl.Run(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return media.Info{}, ctx.Err()
		}
		return media.Info{}, fmt.Errorf("inspecting %s: %w", rawURL, err)
	}
	return ParseInfo([]byte(res.Stdout))
}

// ParseInfo decodes an engine metadata dump. Individual fields with
// unexpected types fall back to zero values; only output with no
// usable JSON object at all is an error.
func ParseInfo(data []byte) (media.Info, error) {
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var in infoJSON
		if err := json.Unmarshal([]byte(line), &in); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				continue
			}
			// Mistyped fields stay zero; the rest of the object decoded.
		}
		return in.toInfo(), nil
	}
	return media.Info{}, errors.New("no metadata in engine output")
}

func (in infoJSON) toInfo() media.Info {
	info := media.Info{
		ID:         in.ID,
		Title:      in.Title,
		Uploader:   in.Uploader,
		UploadDate: in.UploadDate,
		Duration:   in.Duration,
		Webpage:    in.WebpageURL,
	}
	if info.Uploader == "" {
		info.Uploader = in.Channel
	}
	for _, f := range in.Formats {
		info.Formats = append(info.Formats, f.toFormat())
	}
	return info
}

func (f formatJSON) toFormat() media.Format {
	out := media.Format{
		ID:         f.FormatID,
		Ext:        f.Ext,
		Resolution: f.Resolution,
		FPS:        f.FPS,
		VCodec:     f.VCodec,
		ACodec:     f.ACodec,
		Filesize:   f.Filesize,
		Note:       f.FormatNote,
	}
	if out.Filesize == 0 {
		out.Filesize = f.FilesizeApprox
	}
	if out.Resolution == "" && f.Width > 0 && f.Height > 0 {
		out.Resolution = fmt.Sprintf("%dx%d", f.Width, f.Height)
	}
	return out
}
