package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"remora/internal/config"
)

// settingField is one editable row. value renders the current state;
// exactly one of edit (pushes an input dialog) or flip (applies in
// place) is set.
type settingField struct {
	label string
	value func() string
	edit  func() tea.Cmd
	flip  func() error
}

// settingsScreen edits the configuration in place. Every change is
// validated against the usual bounds and saved immediately.
type settingsScreen struct {
	app    *Model
	fields []settingField
	cursor int
	offset int
	note   string
	isErr  bool
}

func newSettings(app *Model) *settingsScreen {
	s := &settingsScreen{app: app}
	s.fields = s.buildFields()
	return s
}

// tryChange validates mutate against a config copy without committing.
func (s *settingsScreen) tryChange(mutate func(c *config.Config)) error {
	next := *s.app.cfg
	next.SubtitleLangs = append([]string(nil), s.app.cfg.SubtitleLangs...)
	mutate(&next)
	return next.Validate()
}

// commit applies mutate to the live config and persists it.
func (s *settingsScreen) commit(mutate func(c *config.Config)) error {
	if err := s.tryChange(mutate); err != nil {
		return err
	}
	mutate(s.app.cfg)
	if err := s.app.cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// stringField pushes an input dialog for a free-form value.
func (s *settingsScreen) stringField(label, prompt string, get func() string, set func(c *config.Config, v string)) settingField {
	return settingField{
		label: label,
		value: get,
		edit: func() tea.Cmd {
			validate := func(v string) error {
				return s.tryChange(func(c *config.Config) { set(c, v) })
			}
			return s.app.push(newInput(s.app, "Settings: "+label, prompt, "", get(), validate,
				func(v string) tea.Cmd {
					s.apply(func(c *config.Config) { set(c, v) })
					s.app.pop()
					return nil
				}))
		},
	}
}

// intField is stringField with a numeric parse step.
func (s *settingsScreen) intField(label, prompt string, get func() int, set func(c *config.Config, v int)) settingField {
	parse := func(v string) (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return n, nil
	}
	return settingField{
		label: label,
		value: func() string { return strconv.Itoa(get()) },
		edit: func() tea.Cmd {
			validate := func(v string) error {
				n, err := parse(v)
				if err != nil {
					return err
				}
				return s.tryChange(func(c *config.Config) { set(c, n) })
			}
			return s.app.push(newInput(s.app, "Settings: "+label, prompt, "", strconv.Itoa(get()), validate,
				func(v string) tea.Cmd {
					n, err := parse(v)
					if err != nil {
						return nil
					}
					s.apply(func(c *config.Config) { set(c, n) })
					s.app.pop()
					return nil
				}))
		},
	}
}

// boolField toggles on enter.
func (s *settingsScreen) boolField(label string, get func() bool, set func(c *config.Config, v bool)) settingField {
	return settingField{
		label: label,
		value: func() string {
			if get() {
				return "on"
			}
			return "off"
		},
		flip: func() error {
			return s.commit(func(c *config.Config) { set(c, !get()) })
		},
	}
}

// cycleField steps through a fixed value list on enter.
func (s *settingsScreen) cycleField(label string, options []string, get func() string, set func(c *config.Config, v string)) settingField {
	return settingField{
		label: label,
		value: get,
		flip: func() error {
			current := get()
			next := options[0]
			for i, o := range options {
				if o == current {
					next = options[(i+1)%len(options)]
					break
				}
			}
			return s.commit(func(c *config.Config) { set(c, next) })
		},
	}
}

func (s *settingsScreen) buildFields() []settingField {
	cfg := func() *config.Config { return s.app.cfg }
	return []settingField{
		s.stringField("output dir", "Where downloads are saved",
			func() string { return cfg().OutputDir },
			func(c *config.Config, v string) { c.OutputDir = v }),
		s.intField("concurrent fragments", "Parallel fragments per download (1-10)",
			func() int { return cfg().ConcurrentFragments },
			func(c *config.Config, v int) { c.ConcurrentFragments = v }),
		s.intField("retries", "Engine retries per file (1-20)",
			func() int { return cfg().Retries },
			func(c *config.Config, v int) { c.Retries = v }),
		s.intField("socket timeout", "Seconds before a stalled connection is dropped (5-300)",
			func() int { return cfg().SocketTimeout },
			func(c *config.Config, v int) { c.SocketTimeout = v }),
		s.stringField("user agent", "Browser identity sent to sites",
			func() string { return cfg().UserAgent },
			func(c *config.Config, v string) { c.UserAgent = v }),
		s.stringField("proxy", "Proxy URL, empty for none",
			func() string { return cfg().Proxy },
			func(c *config.Config, v string) { c.Proxy = v }),
		s.stringField("subtitle languages", "Comma-separated list, first match wins",
			func() string { return strings.Join(cfg().SubtitleLangs, ",") },
			func(c *config.Config, v string) { c.SubtitleLangs = splitLangs(v) }),
		s.boolField("write subtitles",
			func() bool { return cfg().WriteSubtitles },
			func(c *config.Config, v bool) { c.WriteSubtitles = v }),
		s.boolField("sponsorblock",
			func() bool { return cfg().SponsorBlock },
			func(c *config.Config, v bool) { c.SponsorBlock = v }),
		s.boolField("embed thumbnail",
			func() bool { return cfg().EmbedThumbnail },
			func(c *config.Config, v bool) { c.EmbedThumbnail = v }),
		s.boolField("download danmaku",
			func() bool { return cfg().DownloadDanmaku },
			func(c *config.Config, v bool) { c.DownloadDanmaku = v }),
		s.intField("crf", "x264 quality, lower is better (0-51)",
			func() int { return cfg().CRF },
			func(c *config.Config, v int) { c.CRF = v }),
		s.cycleField("encode preset",
			[]string{"ultrafast", "superfast", "veryfast", "faster", "fast", "medium", "slow", "slower", "veryslow"},
			func() string { return cfg().EncodePreset },
			func(c *config.Config, v string) { c.EncodePreset = v }),
		s.stringField("audio bitrate", "Like 192k or 320k",
			func() string { return cfg().AudioBitrate },
			func(c *config.Config, v string) { c.AudioBitrate = v }),
		s.cycleField("player",
			[]string{"auto", "mpv", "vlc", "system"},
			func() string { return cfg().Player },
			func(c *config.Config, v string) { c.Player = v }),
		s.cycleField("log level",
			[]string{"debug", "info", "warn", "error"},
			func() string { return cfg().LogLevel },
			func(c *config.Config, v string) { c.LogLevel = v }),
		s.boolField("history",
			func() bool { return cfg().History },
			func(c *config.Config, v bool) { c.History = v }),
	}
}

// apply commits a change from an input dialog and records the outcome
// for the note line.
func (s *settingsScreen) apply(mutate func(c *config.Config)) {
	if err := s.commit(mutate); err != nil {
		s.note, s.isErr = err.Error(), true
		return
	}
	s.note, s.isErr = "saved", false
}

func (s *settingsScreen) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch {
	case key.Matches(keyMsg, s.app.keys.up):
		s.cursor--
	case key.Matches(keyMsg, s.app.keys.down):
		s.cursor++
	case key.Matches(keyMsg, s.app.keys.top):
		s.cursor = 0
	case key.Matches(keyMsg, s.app.keys.bottom):
		s.cursor = len(s.fields) - 1
	case key.Matches(keyMsg, s.app.keys.choose):
		f := s.fields[s.cursor]
		if f.edit != nil {
			s.note = ""
			return f.edit()
		}
		if err := f.flip(); err != nil {
			s.note, s.isErr = err.Error(), true
		} else {
			s.note, s.isErr = "saved", false
		}
		return nil
	default:
		return nil
	}

	s.clampScroll()
	return nil
}

func (s *settingsScreen) clampScroll() {
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor > len(s.fields)-1 {
		s.cursor = len(s.fields) - 1
	}
	rows := s.app.listHeight()
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+rows {
		s.offset = s.cursor - rows + 1
	}
}

func (s *settingsScreen) View() string {
	st := s.app.styles
	var b strings.Builder

	b.WriteString(st.title.Render("Settings"))
	b.WriteString("\n\n")

	rows := s.app.listHeight()
	end := s.offset + rows
	if end > len(s.fields) {
		end = len(s.fields)
	}
	for i := s.offset; i < end; i++ {
		f := s.fields[i]
		line := fmt.Sprintf("%-22s %s", f.label, truncate(f.value(), 40))
		if i == s.cursor {
			b.WriteString(st.selected.Render("> " + line))
		} else {
			b.WriteString(st.item.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if s.note != "" {
		b.WriteString("\n")
		if s.isErr {
			b.WriteString(st.errText.Render("✗ " + s.note))
		} else {
			b.WriteString(st.good.Render("✓ " + s.note))
		}
	}
	b.WriteString("\n")
	b.WriteString(st.hint.Render("enter edit/toggle · esc back"))
	return b.String()
}

// splitLangs turns "a, b,c" into trimmed non-empty entries.
func splitLangs(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
