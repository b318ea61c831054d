package doctor_test

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/example/go-pinyin/internal/dictionary"
	"github.com/example/go-pinyin/internal/doctor"
	"github.com/example/go-pinyin/internal/testutil"
)

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	cfg := doctor.Config{
		DictionaryPath:     testutil.WriteDictionary(t, "char.json", testutil.SampleDictionary),
		UserDictionaryPath: testutil.WriteDictionary(t, "user.json", testutil.SampleUserEntries),
		Probe:              "你好 啊",
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}

	for _, want := range []string{"✓ entries: 8 keys", "✓ probe text: all characters covered"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRun_UserDictionarySkipped(t *testing.T) {
	cfg := doctor.Config{
		DictionaryPath: testutil.WriteDictionary(t, "char.yaml", "好: {consonant: h, vowel: ao, tone: 3}\n"),
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Fatalf("unexpected failures: %v", result.Failures())
	}
	if !strings.Contains(out.String(), "user dictionary: skipped") {
		t.Errorf("output should report the skipped user dictionary:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// file checks
// ---------------------------------------------------------------------------

func TestRun_FileProblemsFail(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", filepath.Join(t.TempDir(), "char.json"), "dictionary"},
		{"unknown extension", testutil.WriteDictionary(t, "char.txt", "{}"), "unknown dictionary format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loaded := false
			cfg := doctor.Config{
				DictionaryPath: tt.path,
				Load: func(_, _ string) (*dictionary.Store, error) {
					loaded = true
					return nil, nil
				},
			}

			var out strings.Builder
			result := doctor.Run(cfg, &out)

			if !result.Failed() {
				t.Fatal("expected a failure")
			}
			if !hasFailureContaining(result.Failures(), tt.want) {
				t.Errorf("expected failure mentioning %q, got: %v", tt.want, result.Failures())
			}
			if loaded {
				t.Error("entries must not be loaded when a file check fails")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// entry validation
// ---------------------------------------------------------------------------

func TestRun_InvalidUserEntryFails(t *testing.T) {
	cfg := doctor.Config{
		DictionaryPath:     testutil.WriteDictionary(t, "char.json", testutil.SampleDictionary),
		UserDictionaryPath: testutil.WriteDictionary(t, "user.json", `{"book": {"vowel": "ke", "tone": "4"}}`),
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), `"book" doesn't have consonant`) {
		t.Errorf("expected validation failure, got: %v", result.Failures())
	}
}

func TestRun_LoadErrorIsReported(t *testing.T) {
	errBroken := errors.New("broken dictionary")
	cfg := doctor.Config{
		DictionaryPath: testutil.WriteDictionary(t, "char.json", "{}"),
		Load: func(_, _ string) (*dictionary.Store, error) {
			return nil, errBroken
		},
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "broken dictionary") {
		t.Errorf("expected load failure, got: %v", result.Failures())
	}
	if !strings.Contains(out.String(), doctor.FailMark+" entries") {
		t.Errorf("output should mark entries as failed:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// probe text
// ---------------------------------------------------------------------------

func TestRun_ProbeReportsMissingCharacters(t *testing.T) {
	cfg := doctor.Config{
		DictionaryPath: testutil.WriteDictionary(t, "char.json", testutil.SampleDictionary),
		Probe:          "你们好吧们",
	}

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "no entry for 们 吧") {
		t.Errorf("expected probe failure, got: %v", result.Failures())
	}
}

func TestMissing(t *testing.T) {
	store := testutil.NewStore(t, nil)

	if got := doctor.Missing(store, "你好\n啊"); got != nil {
		t.Errorf("Missing(covered) = %v; want nil", got)
	}
	if got := doctor.Missing(store, "吧你吧x"); !reflect.DeepEqual(got, []string{"吧", "x"}) {
		t.Errorf("Missing = %v; want [吧 x]", got)
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func hasFailureContaining(failures []string, sub string) bool {
	for _, f := range failures {
		if strings.Contains(f, sub) {
			return true
		}
	}
	return false
}
