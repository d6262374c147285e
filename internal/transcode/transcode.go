package transcode

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	ffmpeg_go "github.com/u2takey/ffmpeg-go"

	"remora/internal/probe"
)

// Job describes one encode.
type Job struct {
	Input  string
	Output string // derived from Input and Preset when empty
	Preset Preset
}

// Progress is one parsed encoder stats line.
type Progress struct {
	Percent float64 // 0 while the input duration is unknown
	Speed   float64 // realtime multiplier, e.g. 1.25
	Time    time.Duration
}

// OutputPath returns the default output name for input under preset:
// <base>_<preset>.<ext> next to the input file.
func OutputPath(input string, p Preset) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return filepath.Join(filepath.Dir(input), fmt.Sprintf("%s_%s.%s", base, p.Name, p.OutExt))
}

// Run encodes job.Input according to job.Preset and returns the
// output path. onProgress may be nil. A failed or cancelled run
// removes its partial output.
func Run(ctx context.Context, job Job, onProgress func(Progress)) (string, error) {
	if _, err := os.Stat(job.Input); err != nil {
		return "", fmt.Errorf("input file: %w", err)
	}
	out := job.Output
	if out == "" {
		out = OutputPath(job.Input, job.Preset)
	}
	if sameFile(job.Input, out) {
		return "", fmt.Errorf("output %s would overwrite the input", out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"input":  job.Input,
		"output": out,
		"preset": job.Preset.Name,
	})
	log.Info("starting transcode")

	var total time.Duration
	if report, err := probe.Inspect(ctx, job.Input); err != nil {
		log.WithError(err).Warn("probe failed, progress will be indeterminate")
	} else {
		total = report.Duration()
	}

	stderrTail := &bytes.Buffer{}
	stderrReader, stderrWriter := io.Pipe()

	parserDone := make(chan struct{})
	go func() {
		defer close(parserDone)
		parseStats(stderrReader, total, onProgress)
	}()

	in := ffmpeg_go.Input(job.Input)
	streams := []*ffmpeg_go.Stream{in}
	if job.Preset.AudioOnly {
		streams = []*ffmpeg_go.Stream{in.Audio()}
	}

	err := ffmpeg_go.OutputContext(ctx, streams, out, job.Preset.KwArgs()).
		WithErrorOutput(io.MultiWriter(stderrTail, stderrWriter)).
		OverWriteOutput().
		Run()

	stderrWriter.Close()
	<-parserDone

	if err != nil {
		os.Remove(out)
		if ctx.Err() != nil {
			log.Info("transcode cancelled")
			return "", ctx.Err()
		}
		log.WithError(err).Error("transcode failed")
		if line := lastLine(stderrTail.Bytes()); line != "" {
			return "", fmt.Errorf("encoding %s: %w: %s", filepath.Base(job.Input), err, line)
		}
		return "", fmt.Errorf("encoding %s: %w", filepath.Base(job.Input), err)
	}

	log.Info("transcode finished")
	return out, nil
}

var (
	statsTime  = regexp.MustCompile(`time=(\d{2,}):(\d{2}):(\d{2}\.\d{2})`)
	statsSpeed = regexp.MustCompile(`speed=\s*(\d+\.?\d*)x`)
)

func parseStats(r io.Reader, total time.Duration, onProgress func(Progress)) {
	scanner := bufio.NewScanner(r)
	// ffmpeg terminates stats lines with \r when stderr is not a tty.
	scanner.Split(scanStatsLines)

	for scanner.Scan() {
		line := scanner.Text()
		m := statsTime.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds, _ := strconv.ParseFloat(m[3], 64)
		elapsed := time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds*float64(time.Second))

		p := Progress{Time: elapsed}
		if total > 0 {
			p.Percent = float64(elapsed) / float64(total) * 100
			if p.Percent > 100 {
				p.Percent = 100
			}
		}
		if sm := statsSpeed.FindStringSubmatch(line); len(sm) > 1 {
			p.Speed, _ = strconv.ParseFloat(sm[1], 64)
		}
		if onProgress != nil {
			onProgress(p)
		}
	}
}

func scanStatsLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func lastLine(b []byte) string {
	lines := strings.FieldsFunc(string(b), func(r rune) bool { return r == '\n' || r == '\r' })
	for i := len(lines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(lines[i]); s != "" {
			return s
		}
	}
	return ""
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
