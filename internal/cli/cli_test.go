package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/locale"
	"datepick/internal/picker"
	"datepick/internal/store"
	"datepick/internal/tui"
)

var fixedNow = time.Date(2023, time.September, 6, 9, 0, 0, 0, time.UTC)

type fakeTUI struct {
	calls []tui.Options
	res   tui.Result
	err   error
}

func (f *fakeTUI) run(_ context.Context, opts tui.Options, _ <-chan string) (tui.Result, error) {
	f.calls = append(f.calls, opts)
	return f.res, f.err
}

// testEnv isolates config and state in temp dirs and clears env overrides.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("DATEPICK_CONFIG_DIR", t.TempDir())
	for _, k := range []string{"DATEPICK_LANG", "DATEPICK_FORMAT", "DATEPICK_DIR", "DATEPICK_LOG_FILE", "DATEPICK_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return t.TempDir()
}

func runCLI(t *testing.T, app *App, args ...string) ([]byte, []byte, error) {
	t.Helper()
	if app == nil {
		app = &App{}
	}
	if app.now == nil {
		app.now = func() time.Time { return fixedNow }
	}
	cmd := newRootCmd(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.Bytes(), stderr.Bytes(), err
}

func mustData(t *testing.T, stdout []byte) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout: %v\nstdout:\n%s", err, stdout)
	}
	data, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %#v", env["data"])
	}
	return data
}

func TestPick_PrintsRecordsAndRemembers(t *testing.T) {
	dir := testEnv(t)
	nowruz := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	fake := &fakeTUI{res: tui.Result{
		Kind:      store.KindSingle,
		Calendar:  calendar.Jalaali,
		Start:     nowruz,
		Formatted: "1403/01/01",
		Selected:  true,
		Positions: map[string]store.Position{tui.CursorSingle: {Calendar: "jalaali", Month: 1, Year: 1403}},
	}}
	app := &App{runTUI: fake.run}

	stdout, stderr, err := runCLI(t, app, "--dir", dir, "pick", "--lang", "fa", "--value", "1403/01/01")
	if err != nil {
		t.Fatalf("pick: %v\nstderr:\n%s", err, stderr)
	}
	data := mustData(t, stdout)
	if data["value"] != "1403/01/01" || data["kind"] != "single" || data["calendar"] != "jalaali" {
		t.Fatalf("unexpected data: %#v", data)
	}
	if id, _ := data["historyId"].(string); id == "" {
		t.Fatalf("expected history id, got %#v", data)
	}

	opts := fake.calls[0]
	if opts.Language != locale.Farsi || opts.Mask != calendar.JalaaliMask || !opts.Value.Equal(nowruz) {
		t.Fatalf("unexpected options: %+v", opts)
	}

	// History lists it.
	stdout, _, err = runCLI(t, app, "--dir", dir, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	sels, _ := mustData(t, stdout)["selections"].([]any)
	if len(sels) != 1 || sels[0].(map[string]any)["formatted"] != "1403/01/01" {
		t.Fatalf("unexpected history: %#v", sels)
	}

	// A plain relaunch opens on the remembered month.
	fake.res = tui.Result{Kind: store.KindSingle, Calendar: calendar.Jalaali}
	stdout, _, err = runCLI(t, app, "--dir", dir, "--lang", "fa")
	if err != nil {
		t.Fatalf("relaunch: %v", err)
	}
	if got := fake.calls[1].Default; !got.Equal(nowruz) {
		t.Fatalf("default = %v, want %v", got, nowruz)
	}
	if data := mustData(t, stdout); data["selected"] != false {
		t.Fatalf("nothing was selected: %#v", data)
	}

	b, err := os.ReadFile(filepath.Join(dir, "datepick.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "selection recorded") {
		t.Fatalf("log missing history record:\n%s", b)
	}
	if !strings.Contains(string(b), `"cmd":"datepick`) {
		t.Fatalf("log records should carry the command path:\n%s", b)
	}
}

func TestPick_HistoryDisabled(t *testing.T) {
	dir := testEnv(t)
	fake := &fakeTUI{res: tui.Result{Kind: store.KindSingle, Calendar: calendar.Gregorian, Start: fixedNow, Formatted: "2023-09-06", Selected: true}}
	app := &App{runTUI: fake.run}

	if _, _, err := runCLI(t, app, "config", "set", "history", "false"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	stdout, _, err := runCLI(t, app, "--dir", dir, "--format", "text")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if string(stdout) != "2023-09-06\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	sels, err := store.Store{Dir: dir}.RecentSelections(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentSelections: %v", err)
	}
	if len(sels) != 0 {
		t.Fatalf("history should be off, got %d rows", len(sels))
	}
}

func TestPick_Errors(t *testing.T) {
	dir := testEnv(t)

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{
			name:  "value does not match",
			args:  []string{"--value", "13/45/2024"},
			check: func(err error) bool { var e dateArgError; return errors.As(err, &e) },
		},
		{
			name:  "bad mask",
			args:  []string{"--mask", "YYYY-MM"},
			check: func(err error) bool { var e *calendar.MaskError; return errors.As(err, &e) },
		},
		{
			name:  "value and default",
			args:  []string{"--value", "2024-01-01", "--default", "2024-01-01"},
			check: func(err error) bool { return err != nil },
		},
		{
			name:  "unknown language",
			args:  []string{"--lang", "xx-unknown"},
			check: func(err error) bool { return err != nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTUI{}
			_, _, err := runCLI(t, &App{runTUI: fake.run}, append([]string{"--dir", dir, "--log-file", "off"}, tt.args...)...)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(fake.calls) != 0 {
				t.Fatalf("picker must not start")
			}
		})
	}
}

func TestPick_Cancelled(t *testing.T) {
	dir := testEnv(t)
	fake := &fakeTUI{res: tui.Result{Kind: store.KindSingle, Cancelled: true}}
	stdout, _, err := runCLI(t, &App{runTUI: fake.run}, "--dir", dir)
	var ce cancelledError
	if !errors.As(err, &ce) {
		t.Fatalf("expected cancelledError, got %v", err)
	}
	if len(stdout) != 0 {
		t.Fatalf("cancel prints nothing, got %q", stdout)
	}
}

func TestPick_BindSeedsValue(t *testing.T) {
	dir := testEnv(t)
	bound := filepath.Join(t.TempDir(), "value.txt")
	if err := os.WriteFile(bound, []byte("2024-02-29\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	fake := &fakeTUI{res: tui.Result{Kind: store.KindSingle}}
	if _, _, err := runCLI(t, &App{runTUI: fake.run}, "--dir", dir, "--lang", "en", "--bind", bound); err != nil {
		t.Fatalf("pick: %v", err)
	}
	want := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	if got := fake.calls[0].Value; !got.Equal(want) {
		t.Fatalf("value = %v, want %v", got, want)
	}
}

func TestRange(t *testing.T) {
	dir := testEnv(t)

	fake := &fakeTUI{}
	_, _, err := runCLI(t, &App{runTUI: fake.run}, "--dir", dir, "range", "--start", "2024-03-10", "--end", "2024-03-01")
	var rej *picker.RejectionError
	if !errors.As(err, &rej) || rej.Reason != picker.ReasonOutOfOrder {
		t.Fatalf("expected out-of-order rejection, got %v", err)
	}

	s := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	e := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	fake = &fakeTUI{res: tui.Result{Kind: store.KindRange, Calendar: calendar.Gregorian, Start: s, End: &e, Formatted: "2024-03-01..2024-03-10", Selected: true}}
	stdout, _, err := runCLI(t, &App{runTUI: fake.run}, "--dir", dir, "range", "--lang", "en", "--start", "2024-03-01", "--end", "2024-03-10")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	opts := fake.calls[0]
	if !opts.Range || !opts.StartValue.Equal(s) || !opts.EndValue.Equal(e) {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if data := mustData(t, stdout); data["kind"] != "range" || data["end"] == nil {
		t.Fatalf("unexpected data: %#v", data)
	}
}

func TestConvert(t *testing.T) {
	testEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "fa to en", args: []string{"convert", "1403/01/01", "--from", "fa", "--to", "en"}, want: "2024-03-20\n"},
		{name: "en to fa", args: []string{"convert", "2024-03-20", "--from", "en", "--to", "fa"}, want: "1403/01/01\n"},
		{name: "persian digits", args: []string{"convert", "2023-09-06", "--from", "en", "--to", "fa", "--persian-digits"}, want: "۱۴۰۲/۰۶/۱۵\n"},
		{name: "custom output mask", args: []string{"convert", "1402/12/29", "--to-mask", "DD.MM.YYYY"}, want: "19.03.2024\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCLI(t, nil, append([]string{"--format", "text", "--log-file", "off"}, tt.args...)...)
			if err != nil {
				t.Fatalf("convert: %v\n%s", err, stderr)
			}
			if string(stdout) != tt.want {
				t.Fatalf("got %q, want %q", stdout, tt.want)
			}
		})
	}

	stdout, _, err := runCLI(t, nil, "--log-file", "off", "convert", "1403/01/01")
	if err != nil {
		t.Fatalf("convert json: %v", err)
	}
	data := mustData(t, stdout)
	if data["monthName"] != "March" || data["weekday"] != "Wednesday" || data["day"] != float64(20) {
		t.Fatalf("unexpected data: %#v", data)
	}

	_, _, err = runCLI(t, nil, "--log-file", "off", "convert", "1403/13/01")
	var de dateArgError
	if !errors.As(err, &de) {
		t.Fatalf("expected dateArgError, got %v", err)
	}

	_, _, err = runCLI(t, nil, "--log-file", "off", "convert", "0500-01-01", "--from", "en", "--to", "fa")
	var ide *calendar.InvalidDateError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InvalidDateError for a year before the jalaali range, got %v", err)
	}
}

func TestMonths(t *testing.T) {
	testEnv(t)

	stdout, _, err := runCLI(t, nil, "--log-file", "off", "months", "--lang", "fa", "--year", "1403")
	if err != nil {
		t.Fatalf("months: %v", err)
	}
	months, _ := mustData(t, stdout)["months"].([]any)
	if len(months) != 12 {
		t.Fatalf("want 12 months, got %d", len(months))
	}
	esfand := months[11].(map[string]any)
	if esfand["name"] != "اسفند" || esfand["days"] != float64(30) {
		t.Fatalf("1403 is leap: %#v", esfand)
	}

	stdout, _, err = runCLI(t, nil, "--log-file", "off", "months", "--lang", "fa", "--find", "shahr")
	if err != nil {
		t.Fatalf("months --find: %v", err)
	}
	months, _ = mustData(t, stdout)["months"].([]any)
	if len(months) == 0 || months[0].(map[string]any)["id"] != float64(6) {
		t.Fatalf("expected shahrivar first: %#v", months)
	}

	stdout, _, err = runCLI(t, nil, "--log-file", "off", "months", "--lang", "en")
	if err != nil {
		t.Fatalf("months en: %v", err)
	}
	data := mustData(t, stdout)
	if data["year"] != float64(2023) {
		t.Fatalf("year should default from the clock: %#v", data["year"])
	}

	if _, _, err := runCLI(t, nil, "--log-file", "off", "months", "--lang", "fa", "--year", "300"); err == nil {
		t.Fatalf("expected an error for a year outside the jalaali range")
	}
}

func TestConfigCommands(t *testing.T) {
	testEnv(t)

	stdout, _, err := runCLI(t, nil, "--log-file", "off", "config", "set", "disabled.weekdays", "fri,sat")
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	data := mustData(t, stdout)
	if d, _ := data["disabled"].(map[string]any); d == nil {
		t.Fatalf("expected disabled rules: %#v", data)
	}

	_, _, err = runCLI(t, nil, "--log-file", "off", "config", "set", "nope", "1")
	var ce *store.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}

	stdout, _, err = runCLI(t, nil, "--log-file", "off", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	cfg, _ := mustData(t, stdout)["config"].(map[string]any)
	if _, ok := cfg["disabled"]; !ok {
		t.Fatalf("saved rules missing from show: %#v", cfg)
	}

	stdout, _, err = runCLI(t, nil, "--log-file", "off", "--format", "text", "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(string(stdout)), "config.json") {
		t.Fatalf("path = %q", stdout)
	}
}

func TestConfigDisabledReachesPicker(t *testing.T) {
	dir := testEnv(t)
	if _, _, err := runCLI(t, nil, "--log-file", "off", "config", "set", "disabled.weekdays", "sunday"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	fake := &fakeTUI{res: tui.Result{Kind: store.KindSingle}}
	if _, _, err := runCLI(t, &App{runTUI: fake.run}, "--dir", dir, "--log-file", "off"); err != nil {
		t.Fatalf("pick: %v", err)
	}
	pred := fake.calls[0].Disabled
	if pred == nil || !pred(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("sunday should be disabled")
	}
	if pred(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("monday should be allowed")
	}
}

func TestDocs(t *testing.T) {
	testEnv(t)

	stdout, _, err := runCLI(t, nil, "--log-file", "off", "docs")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	topics, _ := mustData(t, stdout)["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics")
	}

	stdout, _, err = runCLI(t, nil, "--log-file", "off", "docs", "keys", "--raw")
	if err != nil {
		t.Fatalf("docs keys: %v", err)
	}
	if !strings.HasPrefix(string(stdout), "# Keys") {
		t.Fatalf("raw markdown expected, got %q", stdout)
	}

	_, _, err = runCLI(t, nil, "--log-file", "off", "docs", "../etc")
	var ue unknownTopicError
	if !errors.As(err, &ue) {
		t.Fatalf("expected unknownTopicError, got %v", err)
	}
}

func TestFormats(t *testing.T) {
	testEnv(t)

	stdout, _, err := runCLI(t, nil, "--log-file", "off", "--format", "edn", "convert", "1403/01/01")
	if err != nil {
		t.Fatalf("edn: %v", err)
	}
	if !strings.Contains(string(stdout), ":formatted \"2024-03-20\"") {
		t.Fatalf("edn output: %s", stdout)
	}

	_, _, err = runCLI(t, nil, "--log-file", "off", "--format", "yaml", "convert", "1403/01/01")
	if err == nil {
		t.Fatalf("unknown format should fail")
	}

	_, _, err = runCLI(t, nil, "--log-level", "loud", "convert", "1403/01/01")
	if err == nil {
		t.Fatalf("bad log level should fail")
	}
}

func TestHistory_RejectsBadLimit(t *testing.T) {
	dir := testEnv(t)
	if _, _, err := runCLI(t, nil, "--dir", dir, "--log-file", "off", "history", "--limit", "0"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: nil, want: 0},
		{err: cancelledError{}, want: 130},
		{err: errDateArg("--value", "x", "YYYY-MM-DD"), want: 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
