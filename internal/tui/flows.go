package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"remora/internal/batch"
	"remora/internal/cookies"
	"remora/internal/engine"
	"remora/internal/history"
	"remora/internal/media"
	"remora/internal/task"
	"remora/internal/transcode"
)

// downloadKind names the four download menu entries.
type downloadKind int

const (
	downloadVideo downloadKind = iota
	downloadVideoOnly
	downloadAudio
	downloadManual
)

func (k downloadKind) mode() media.Mode {
	switch k {
	case downloadVideoOnly:
		return media.ModeVideoOnly
	case downloadAudio:
		return media.ModeAudioOnly
	case downloadManual:
		return media.ModeManual
	default:
		return media.ModeVideoAudio
	}
}

// mediaExts restricts the transcode browser to files ffmpeg is likely
// to accept.
var mediaExts = []string{
	".mp4", ".mkv", ".avi", ".mov", ".flv", ".webm", ".ts",
	".mp3", ".m4a", ".aac", ".wav", ".flac", ".ogg", ".opus",
}

// startDownloadFlow asks for a URL, resolves cookies for its domain
// and either inspects formats (manual mode) or goes straight to the
// confirmation summary.
func (a *Model) startDownloadFlow(kind downloadKind) tea.Cmd {
	title := "Download " + kind.mode().String()
	return a.push(newInput(a, title, "Video URL", "https://…", "",
		batch.CheckURL,
		func(url string) tea.Cmd {
			req := engine.Request{URL: url, Mode: kind.mode()}
			req.CookieFile = a.resolveCookies(url)
			if kind == downloadManual {
				return a.inspectThenPick(req)
			}
			return a.confirmDownload(req, media.Info{})
		}))
}

// resolveCookies maps the URL's domain to a cookie file, converting
// raw cookie dumps to Netscape format on the fly. Failures only log;
// downloads proceed without cookies.
func (a *Model) resolveCookies(url string) string {
	domain, err := cookies.ExtractDomain(url)
	if err != nil {
		logrus.WithError(err).Debug("cookie domain lookup failed")
		return ""
	}
	dir, err := a.cfg.ExpandCookieDir()
	if err != nil {
		logrus.WithError(err).Warn("cookie dir unavailable")
		return ""
	}
	path, err := cookies.Find(dir, domain)
	if err != nil {
		return ""
	}
	converted, err := cookies.Ensure(path, domain)
	if err != nil {
		logrus.WithError(err).Warnf("cookie file %s unusable", path)
		return ""
	}
	return converted
}

// inspectDoneMsg carries the metadata fetch result for manual mode.
type inspectDoneMsg struct {
	info media.Info
	err  error
}

// inspectThenPick fetches formats behind a spinner, then shows the
// format table.
func (a *Model) inspectThenPick(req engine.Request) tea.Cmd {
	ctx, cancel := context.WithCancel(a.ctx)
	cfg := *a.cfg

	busy := newBusy(a, "Fetching formats for "+req.URL, cancel, func(msg tea.Msg) tea.Cmd {
		done, ok := msg.(inspectDoneMsg)
		if !ok {
			return nil
		}
		a.pop()
		if done.err != nil {
			return a.push(newNotice(a, "Inspection failed", done.err.Error(), true))
		}
		if len(done.info.Formats) == 0 {
			return a.push(newNotice(a, "No formats", "the engine reported no downloadable formats", true))
		}
		return a.pickFormat(req, done.info)
	})

	fetch := func() tea.Msg {
		info, err := engine.Inspect(ctx, &cfg, req.URL, req.CookieFile)
		return inspectDoneMsg{info: info, err: err}
	}
	return tea.Batch(a.push(busy), fetch)
}

func (a *Model) pickFormat(req engine.Request, info media.Info) tea.Cmd {
	rows := make([]string, len(info.Formats))
	for i, f := range info.Formats {
		rows[i] = f.Row()
	}
	title := info.Title
	if title == "" {
		title = req.URL
	}
	return a.push(newSelectList(a, title, media.RowHeader(), rows, func(i int) tea.Cmd {
		req.FormatID = info.Formats[i].ID
		return a.confirmDownload(req, info)
	}))
}

// confirmDownload shows the summary and starts the task on yes.
func (a *Model) confirmDownload(req engine.Request, info media.Info) tea.Cmd {
	outDir, err := a.cfg.ExpandOutputDir()
	if err != nil {
		outDir = a.cfg.OutputDir
	}

	title := info.Title
	if title == "" {
		title = req.URL
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-10s %s\n", "title", title)
	fmt.Fprintf(&b, "%-10s %s\n", "mode", req.Mode.String())
	if req.FormatID != "" {
		fmt.Fprintf(&b, "%-10s %s\n", "format", req.FormatID)
	}
	if info.UploadDate != "" {
		fmt.Fprintf(&b, "%-10s %s\n", "uploaded", media.FormatUploadDate(info.UploadDate))
	}
	if info.Duration > 0 {
		fmt.Fprintf(&b, "%-10s %s\n", "duration", media.FormatDuration(info.Duration))
	}
	fmt.Fprintf(&b, "%-10s %s\n", "saves to", outDir)
	cookieNote := "none"
	if req.CookieFile != "" {
		cookieNote = filepath.Base(req.CookieFile)
	}
	fmt.Fprintf(&b, "%-10s %s", "cookies", cookieNote)

	return a.push(newConfirm(a, "Confirm download", b.String(), "Start download?", true,
		func(yes bool) tea.Cmd {
			if !yes {
				a.home()
				return nil
			}
			a.startDownload(req, title)
			a.home()
			return a.push(newStatusBoard(a))
		}))
}

// startDownload launches a download worker. The task title starts as
// the URL (or inspected title) and is replaced by the engine's title
// once known.
func (a *Model) startDownload(req engine.Request, title string) {
	cfg := *a.cfg
	a.manager.Start(a.ctx, task.KindDownload, title, req.URL,
		func(ctx context.Context, h *task.Handle) error {
			var seenBytes int64
			res, err := engine.Download(ctx, &cfg, req, func(p engine.Progress) {
				if p.TotalBytes > seenBytes {
					seenBytes = p.TotalBytes
				}
				h.Update(func(t *task.Task) {
					t.Percent = p.Percent
					t.DownloadedBytes = p.DownloadedBytes
					t.TotalBytes = p.TotalBytes
					if p.Speed > 0 {
						t.Speed = media.FormatSpeed(p.Speed)
					}
					if p.ETA > 0 {
						t.ETA = media.FormatDuration(p.ETA.Seconds())
					}
					if p.FragmentCount > 0 {
						t.Detail = fmt.Sprintf("fragment %d/%d", p.FragmentIndex, p.FragmentCount)
					}
				})
			})
			if err != nil {
				return err
			}

			h.Update(func(t *task.Task) {
				if res.Title != "" {
					t.Title = res.Title
				}
				t.OutputPath = res.OutputPath
			})
			recTitle := res.Title
			if recTitle == "" {
				recTitle = title
			}
			a.record(history.Record{
				Kind:       "download",
				Title:      recTitle,
				URL:        req.URL,
				OutputPath: res.OutputPath,
				Bytes:      seenBytes,
			})
			return nil
		})
}

// startBatchFlow walks browser → preview → confirm → N download tasks.
func (a *Model) startBatchFlow() tea.Cmd {
	return a.push(newFileBrowser(a, "Choose a URL list file", "", nil, false, func(path string) tea.Cmd {
		entries, err := batch.ReadList(path)
		if err != nil {
			return a.push(newNotice(a, "Bad list file", err.Error(), true))
		}
		return a.confirmBatch(path, entries)
	}))
}

func (a *Model) confirmBatch(path string, entries []batch.Entry) tea.Cmd {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %s\n", "file", filepath.Base(path))
	fmt.Fprintf(&b, "%-6s %d\n", "urls", len(entries))
	for i, e := range entries {
		if i == 5 {
			fmt.Fprintf(&b, "   … %d more", len(entries)-i)
			break
		}
		fmt.Fprintf(&b, "   %s\n", truncate(e.URL, 52))
	}

	question := fmt.Sprintf("Queue %d downloads?", len(entries))
	return a.push(newConfirm(a, "Batch download", strings.TrimRight(b.String(), "\n"), question, true,
		func(yes bool) tea.Cmd {
			if !yes {
				a.home()
				return nil
			}
			for _, e := range entries {
				req := engine.Request{URL: e.URL, Mode: media.ModeVideoAudio}
				req.CookieFile = a.resolveCookies(e.URL)
				a.startDownload(req, e.URL)
			}
			a.home()
			return a.push(newStatusBoard(a))
		}))
}

// startTranscodeFlow walks browser → preset → output path → task.
// Picking a directory instead converts every media file in it.
func (a *Model) startTranscodeFlow() tea.Cmd {
	return a.push(newFileBrowser(a, "Choose a media file or folder", "", mediaExts, true, func(path string) tea.Cmd {
		info, err := os.Stat(path)
		if err != nil {
			return a.push(newNotice(a, "Unreadable path", err.Error(), true))
		}
		if info.IsDir() {
			files, err := listMediaFiles(path)
			if err != nil {
				return a.push(newNotice(a, "Unreadable folder", err.Error(), true))
			}
			if len(files) == 0 {
				return a.push(newNotice(a, "Nothing to convert", "no media files in "+path, true))
			}
			return a.pickPreset(filepath.Base(path)+string(filepath.Separator), func(p transcode.Preset) tea.Cmd {
				return a.confirmDirTranscode(path, files, p)
			})
		}
		return a.pickPreset(filepath.Base(path), func(p transcode.Preset) tea.Cmd {
			return a.askOutputPath(path, p)
		})
	}))
}

// listMediaFiles returns the media files directly inside dir, sorted by
// name as os.ReadDir yields them.
func listMediaFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, m := range mediaExts {
			if ext == m {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	return files, nil
}

func (a *Model) pickPreset(label string, then func(transcode.Preset) tea.Cmd) tea.Cmd {
	rows := make([]string, 0, len(a.presets)+1)
	for _, p := range a.presets {
		rows = append(rows, fmt.Sprintf("%-10s %s", p.Name, p.Label))
	}
	rows = append(rows, fmt.Sprintf("%-10s %s", "custom", "scale to a resolution you type"))

	return a.push(newSelectList(a, "Preset for "+label, "", rows, func(i int) tea.Cmd {
		if i == len(a.presets) {
			return a.askCustomScale(then)
		}
		return then(a.presets[i])
	}))
}

func (a *Model) askCustomScale(then func(transcode.Preset) tea.Cmd) tea.Cmd {
	validate := func(s string) error {
		_, err := transcode.ParseScale(s)
		return err
	}
	return a.push(newInput(a, "Custom scale", "Resolution (1280x720, 720p or 720)", "720p", "",
		validate,
		func(s string) tea.Cmd {
			preset, err := transcode.CustomScale(a.cfg, s)
			if err != nil {
				return a.push(newNotice(a, "Bad resolution", err.Error(), true))
			}
			return then(preset)
		}))
}

func (a *Model) askOutputPath(input string, preset transcode.Preset) tea.Cmd {
	validate := func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("output path cannot be empty")
		}
		_, err := media.SafeOutputPath(filepath.Dir(s), filepath.Base(s))
		return err
	}
	return a.push(newInput(a, "Output file", "Where to write the result", "", transcode.OutputPath(input, preset),
		validate,
		func(out string) tea.Cmd {
			safe, err := media.SafeOutputPath(filepath.Dir(out), filepath.Base(out))
			if err != nil {
				return a.push(newNotice(a, "Bad output path", err.Error(), true))
			}
			a.startTranscode(transcode.Job{Input: input, Output: safe, Preset: preset})
			a.home()
			return a.push(newStatusBoard(a))
		}))
}

// confirmDirTranscode summarizes a folder conversion and queues one
// task per file on yes. Outputs land next to their inputs.
func (a *Model) confirmDirTranscode(dir string, files []string, preset transcode.Preset) tea.Cmd {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %s\n", "folder", dir)
	fmt.Fprintf(&b, "%-8s %s\n", "preset", preset.Name)
	fmt.Fprintf(&b, "%-8s %d\n", "files", len(files))
	for i, f := range files {
		if i == 5 {
			fmt.Fprintf(&b, "   … %d more", len(files)-i)
			break
		}
		fmt.Fprintf(&b, "   %s\n", truncate(filepath.Base(f), 52))
	}

	question := fmt.Sprintf("Convert %d files?", len(files))
	return a.push(newConfirm(a, "Folder transcode", strings.TrimRight(b.String(), "\n"), question, true,
		func(yes bool) tea.Cmd {
			if !yes {
				a.home()
				return nil
			}
			for _, f := range files {
				a.startTranscode(transcode.Job{Input: f, Output: transcode.OutputPath(f, preset), Preset: preset})
			}
			a.home()
			return a.push(newStatusBoard(a))
		}))
}

// startTranscode launches a transcode worker; they run one at a time.
func (a *Model) startTranscode(job transcode.Job) {
	title := filepath.Base(job.Input) + " → " + job.Preset.Name
	a.manager.Start(a.ctx, task.KindTranscode, title, job.Input,
		func(ctx context.Context, h *task.Handle) error {
			out, err := transcode.Run(ctx, job, func(p transcode.Progress) {
				h.Update(func(t *task.Task) {
					t.Percent = p.Percent
					if p.Speed > 0 {
						t.Speed = fmt.Sprintf("%.2fx", p.Speed)
					}
				})
			})
			if err != nil {
				return err
			}

			var size int64
			if info, err := os.Stat(out); err == nil {
				size = info.Size()
			}
			h.Update(func(t *task.Task) {
				t.OutputPath = out
				t.TotalBytes = size
			})
			a.record(history.Record{
				Kind:       "transcode",
				Title:      filepath.Base(out),
				URL:        job.Input,
				OutputPath: out,
				Bytes:      size,
			})
			return nil
		})
}

// busyScreen blocks input behind a spinner until its completion
// message arrives. Popping it (esc) cancels the underlying work.
type busyScreen struct {
	app     *Model
	message string
	spin    spinner.Model
	cancel  context.CancelFunc
	done    func(msg tea.Msg) tea.Cmd
}

func newBusy(app *Model, message string, cancel context.CancelFunc, done func(msg tea.Msg) tea.Cmd) *busyScreen {
	return &busyScreen{
		app:     app,
		message: message,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		cancel:  cancel,
		done:    done,
	}
}

func (b *busyScreen) init() tea.Cmd { return b.spin.Tick }

func (b *busyScreen) close() {
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *busyScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spin, cmd = b.spin.Update(msg)
		return cmd
	case tea.KeyMsg:
		return nil
	default:
		return b.done(msg)
	}
}

func (b *busyScreen) View() string {
	st := b.app.styles
	return st.title.Render("Working") + "\n\n" +
		b.spin.View() + st.value.Render(truncate(b.message, 60)) + "\n\n" +
		st.hint.Render("esc cancel")
}
