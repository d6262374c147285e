package cmd

import "testing"

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"get", "transcode", "probe", "history", "doctor", "version"} {
		if !names[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
	if rootCmd.PersistentPreRunE == nil {
		t.Fatal("config loader not attached")
	}
}

func TestLoadConfigMergesFlags(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	flagOutputDir = "/srv/out"
	defer func() { flagOutputDir = "" }()

	if err := loadConfig(getCmd, nil); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.OutputDir != "/srv/out" {
		t.Errorf("output dir = %q, want the flag override", cfg.OutputDir)
	}
}
