package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/example/go-pinyin/internal/config"
	"github.com/example/go-pinyin/internal/testutil"
)

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	orig := activeCfg
	t.Cleanup(func() { activeCfg = orig })

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	return out.String(), err
}

func sampleDictFlag(t *testing.T) string {
	t.Helper()
	return "--dict=" + testutil.WriteDictionary(t, "char.json", testutil.SampleDictionary)
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"convert", "encode", "vocab", "serve", "health", "demo", "doctor", "bench"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentConfigFlag(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"config", "dict", "user-dict", "color", "log-level"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected --%s persistent flag to be registered", name)
		}
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	// Should not panic on invalid level.
	setupLogger("not-a-level")
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	orig := activeCfg

	t.Cleanup(func() { activeCfg = orig })

	// Zero-value config has empty Paths.Dictionary → requireConfig returns error.
	activeCfg = config.Config{}

	if _, err := requireConfig(); err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestLoadConverter_MergesUserDictionary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Paths.Dictionary = testutil.WriteDictionary(t, "char.json", testutil.SampleDictionary)
	cfg.Paths.UserDictionary = testutil.WriteDictionary(t, "user.yaml", "book:\n  consonant: bu\n  vowel: ke\n  tone: 4\n")

	conv, err := loadConverter(cfg)
	if err != nil {
		t.Fatalf("loadConverter: %v", err)
	}

	if got := conv.RenderString("book", true); got != "buke4" {
		t.Errorf("RenderString(book) = %q; want buke4", got)
	}
}

func TestLoadConverter_InvalidUserEntry(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Paths.Dictionary = testutil.WriteDictionary(t, "char.json", testutil.SampleDictionary)
	cfg.Paths.UserDictionary = testutil.WriteDictionary(t, "user.json", `{"book": {"consonant": "bu", "vowel": "ke"}}`)

	_, err := loadConverter(cfg)
	if err == nil || !strings.Contains(err.Error(), `"book" doesn't have tone`) {
		t.Fatalf("loadConverter error = %v; want missing tone", err)
	}
}

func TestLoadConverter_MissingDictionary(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Paths.Dictionary = t.TempDir() + "/missing.json"

	if _, err := loadConverter(cfg); err == nil {
		t.Fatal("expected error for missing dictionary")
	}
}

func TestVocab_PrintsCodeTable(t *testing.T) {
	out, err := runCLI(t, "", "vocab", "pinyin", sampleDictFlag(t))
	if err != nil {
		t.Fatalf("vocab pinyin: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 || lines[0] != "0\ta1" || lines[4] != "4\thao3" {
		t.Errorf("vocab pinyin output = %q", out)
	}

	out, err = runCLI(t, "", "vocab", "hanzi", sampleDictFlag(t))
	if err != nil {
		t.Fatalf("vocab hanzi: %v", err)
	}
	if !strings.HasPrefix(out, "0\t你\n1\t好\n") {
		t.Errorf("vocab hanzi output = %q", out)
	}
}

func TestDoctor_PassesForSampleDictionary(t *testing.T) {
	out, err := runCLI(t, "", "doctor", sampleDictFlag(t), "--probe", "你好")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "doctor checks passed") {
		t.Errorf("output = %q", out)
	}
}

func TestDoctor_FailsOnMissingProbeCharacter(t *testing.T) {
	_, err := runCLI(t, "", "doctor", sampleDictFlag(t), "--probe", "你们")
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
}

func TestBench_JSONReport(t *testing.T) {
	out, err := runCLI(t, "", "bench", sampleDictFlag(t), "--text", "你好啊", "--runs", "3", "--format", "json", "--op", "pronunciation")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}

	var report struct {
		Runs []struct {
			Cold  bool `json:"cold"`
			Chars int  `json:"chars"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(report.Runs) != 3 || !report.Runs[0].Cold || report.Runs[1].Cold || report.Runs[2].Chars != 3 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestBench_RejectsBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"--text", ""},
		{"--text", "好", "--runs", "0"},
		{"--text", "好", "--format", "xml"},
		{"--text", "好", "--op", "speak"},
	} {
		if _, err := runCLI(t, "", append([]string{"bench", sampleDictFlag(t)}, args...)...); err == nil {
			t.Errorf("bench %v: expected error", args)
		}
	}
}
