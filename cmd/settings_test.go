package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/xvierd/tomodo/internal/adapters/storage"
	"github.com/xvierd/tomodo/internal/config"
	"github.com/xvierd/tomodo/internal/domain"
)

func TestCLI_ConfigTimer(t *testing.T) {
	dir := newCLIDir(t)

	stdout, _, err := runCLI(t, dir, "config", "timer", "--json")
	require.NoError(t, err)
	var cfg timerConfigJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, timerConfigJSON{WorkMins: 25, ShortBreakMins: 5, LongBreakMins: 15, PomodoroTarget: 4}, cfg)

	stdout, _, err = runCLI(t, dir, "config", "timer", "--work", "50", "--long-break-after", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Timer settings saved.")
	assert.Contains(t, stdout, "50m")

	_, _, err = runCLI(t, dir, "config", "timer", "--short-break", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidTimerConfig)

	stdout, _, err = runCLI(t, dir, "config", "timer", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(stdout), &cfg))
	assert.Equal(t, timerConfigJSON{WorkMins: 50, ShortBreakMins: 5, LongBreakMins: 15, PomodoroTarget: 2}, cfg)
}

func TestCLI_ConfigOverview(t *testing.T) {
	dir := newCLIDir(t)
	stdout, _, err := runCLI(t, dir, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, dir)
	assert.Contains(t, stdout, "config.toml")
	assert.Contains(t, stdout, "Sessions before long:  4")
}

func TestCLI_Sound(t *testing.T) {
	dir := newCLIDir(t)
	bell := filepath.Join(t.TempDir(), "bell.wav")
	require.NoError(t, os.WriteFile(bell, []byte("RIFF"), 0o644))

	stdout, _, err := runCLI(t, dir, "sound", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No alert sound chosen.")

	_, _, err = runCLI(t, dir, "sound", "set", filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, domain.ErrAudioFileNotFound)

	stdout, _, err = runCLI(t, dir, "sound", "set", bell)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Alert sound saved")
	assert.NotContains(t, stdout, "this run only")

	stdout, _, err = runCLI(t, dir, "sound", "show", "--json")
	require.NoError(t, err)
	var shown struct {
		AudioFile string `json:"audio_file"`
		Permanent bool   `json:"permanent"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, bell, shown.AudioFile)
	assert.True(t, shown.Permanent)

	_, _, err = runCLI(t, dir, "sound", "clear")
	require.NoError(t, err)
	stdout, _, err = runCLI(t, dir, "sound", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No alert sound chosen.")
}

func TestCLI_SoundSetWithoutFile(t *testing.T) {
	dir := newCLIDir(t)
	_, _, err := runCLI(t, dir, "sound", "set", "--json")
	assert.EqualError(t, err, "no audio file given")

	_, _, err = runCLI(t, dir, "sound", "set", "--permanent", filepath.Join(dir, "bell.wav"))
	assert.Error(t, err, "the permanent flag is gone; set always saves")
}

func TestFindSoundFiles(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "stereo")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	for _, name := range []string{"b.wav", "a.OGG", "notes.txt", filepath.Join("stereo", "c.oga")} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	got := findSoundFiles([]string{root, filepath.Join(root, "missing")}, 10)
	assert.Equal(t, []string{
		filepath.Join(root, "a.OGG"),
		filepath.Join(root, "b.wav"),
		filepath.Join(nested, "c.oga"),
	}, got)

	assert.Len(t, findSoundFiles([]string{root}, 2), 2)
}

func TestCLI_SoundFlagIsNotSaved(t *testing.T) {
	dir := newCLIDir(t)
	bell := filepath.Join(t.TempDir(), "bell.wav")
	require.NoError(t, os.WriteFile(bell, []byte("RIFF"), 0o644))

	stdout, _, err := runCLI(t, dir, "--sound", bell, "sound", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "this run only")

	stdout, _, err = runCLI(t, dir, "sound", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No alert sound chosen.")
}

func TestCLI_StatsEmpty(t *testing.T) {
	dir := newCLIDir(t)

	stdout, _, err := runCLI(t, dir, "stats", "--days", "3", "--json")
	require.NoError(t, err)
	var out struct {
		Days []struct {
			Date          string `json:"date"`
			WorkIntervals int    `json:"work_intervals"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Days, 3)
	assert.Equal(t, time.Now().Format(domain.DueDateLayout), out.Days[2].Date)
	for _, d := range out.Days {
		assert.Zero(t, d.WorkIntervals)
	}

	_, _, err = runCLI(t, dir, "stats", "--days", "0")
	assert.Error(t, err)
}

func TestCLI_StatsRecent(t *testing.T) {
	dir := newCLIDir(t)
	history, err := storage.NewHistory(filepath.Join(dir, storage.HistoryFileName))
	require.NoError(t, err)
	old := domain.NewInterval(domain.ModeWork, 25*time.Minute, 1)
	old.CompletedAt = time.Now().Add(-5 * time.Hour)
	require.NoError(t, history.Record(context.Background(), old))
	require.NoError(t, history.Record(context.Background(), domain.NewInterval(domain.ModeWork, 25*time.Minute, 2)))
	require.NoError(t, history.Record(context.Background(), domain.NewInterval(domain.ModeShortBreak, 5*time.Minute, 2)))
	require.NoError(t, history.Close())

	stdout, _, err := runCLI(t, dir, "stats", "--recent", "1h", "--json")
	require.NoError(t, err)
	var out struct {
		Intervals []struct {
			Mode     string `json:"mode"`
			Minutes  int    `json:"minutes"`
			Pomodoro int    `json:"pomodoro"`
		} `json:"intervals"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Intervals, 2)
	assert.Equal(t, "work", out.Intervals[0].Mode)
	assert.Equal(t, 25, out.Intervals[0].Minutes)
	assert.Equal(t, 5, out.Intervals[1].Minutes)

	stdout, _, err = runCLI(t, dir, "stats", "--recent", "6h")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Intervals in the last 6h0m0s")
	assert.Equal(t, 2, strings.Count(stdout, "Work"))
	assert.Contains(t, stdout, "Short Break")

	_, _, err = runCLI(t, dir, "stats", "--recent", "0s")
	assert.Error(t, err)
	_, _, err = runCLI(t, dir, "stats", "--recent", "1h", "--days", "3")
	assert.Error(t, err, "--days and --recent cannot be combined")
}

func TestRenderRecent(t *testing.T) {
	app.config = config.DefaultConfig()
	assert.Equal(t, "No intervals in the last 30m0s.\n", renderRecent(nil, 30*time.Minute))

	done := time.Date(2024, 6, 10, 14, 5, 0, 0, time.Local)
	got := renderRecent([]domain.Interval{
		{Mode: domain.ModeLongBreak, Duration: 15 * time.Minute, CompletedAt: done, PomodoroCount: 4},
	}, 2*time.Hour)
	assert.Contains(t, got, "Mon 14:05")
	assert.Contains(t, got, "☕ Long Break")
	assert.Contains(t, got, "15m")
	assert.Contains(t, got, "pomodoro 4")
}

func TestRenderStats(t *testing.T) {
	app.config = config.DefaultConfig()

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)
	got := renderStats([]domain.DailyStats{
		{Date: day, WorkIntervals: 4, Breaks: 3, TotalWorkTime: 100 * time.Minute},
		{Date: day.AddDate(0, 0, 1), WorkIntervals: 2, Breaks: 2, TotalWorkTime: 50 * time.Minute},
	})
	assert.Contains(t, got, "Last 2 day(s)")
	assert.Contains(t, got, "Mon 06/10")
	assert.Contains(t, got, "3 breaks, 1h40m")
	assert.Contains(t, got, "Total: 6 pomodoros, 5 breaks, 2h30m focused")
}

func TestCLI_Export(t *testing.T) {
	dir := newCLIDir(t)
	_, _, err := runCLI(t, dir, "add", "Write report", "-d", "Q3, final", "--due", "2024-09-30")
	require.NoError(t, err)
	_, _, err = runCLI(t, dir, "add", "Call bank")
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		stdout, _, err := runCLI(t, dir, "export")
		require.NoError(t, err)
		var doc exportDoc
		require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
		require.Len(t, doc.Tasks, 2)
		assert.Equal(t, 25, doc.Timer.WorkMins)
	})

	t.Run("yaml to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.yaml")
		_, stderr, err := runCLI(t, dir, "export", "-f", "yaml", "-o", path)
		require.NoError(t, err)
		assert.Contains(t, stderr, "Exported 2 task(s)")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc exportDoc
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Equal(t, "Write report", doc.Tasks[0].Title)
		assert.Equal(t, "2024-09-30", doc.Tasks[0].Due)
	})

	t.Run("csv", func(t *testing.T) {
		stdout, _, err := runCLI(t, dir, "export", "--format", "csv")
		require.NoError(t, err)
		records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, []string{"1", "Write report", "Q3, final", "2024-09-30", "Medium", "false"}, records[1])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := runCLI(t, dir, "export", "-f", "xml")
		assert.Error(t, err)
	})

	t.Run("unknown format keeps existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.xml")
		require.NoError(t, os.WriteFile(path, []byte("previous export"), 0o644))

		_, _, err := runCLI(t, dir, "export", "-f", "xml", "-o", path)
		assert.ErrorContains(t, err, `unsupported format "xml"`)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "previous export", string(data))
	})

	t.Run("unwritable output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "tasks.json")
		_, _, err := runCLI(t, dir, "export", "-o", path)
		assert.ErrorContains(t, err, "failed to write output file")
	})
}
