package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/xvierd/tomodo/internal/adapters/tui"
)

// soundDirs are searched for audio files when sound set gets no argument.
var soundDirs = []string{
	"/usr/share/sounds",
	"/System/Library/Sounds",
	`C:\Windows\Media`,
}

const maxSoundChoices = 20

var soundCmd = &cobra.Command{
	Use:   "sound",
	Short: "Manage the alert sound played when an interval ends",
}

var soundSetCmd = &cobra.Command{
	Use:   "set [file]",
	Short: "Choose and save the alert sound",
	Long: `Choose the audio file played when an interval ends. The choice is saved
and used on every later run. Without a file you can pick one of the system
sounds. Use the global --sound flag for a sound that lasts one run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			if jsonOutput || !term.IsTerminal(os.Stdin.Fd()) {
				return errors.New("no audio file given")
			}
			files := findSoundFiles(soundDirs, maxSoundChoices)
			if len(files) == 0 {
				return errors.New("no system sounds found, pass an audio file")
			}
			items := make([]tui.PickerItem, len(files))
			for i, f := range files {
				items[i] = tui.PickerItem{Label: filepath.Base(f), Desc: f}
			}
			result, err := tui.RunPicker("Alert sound", items, &app.config.Theme)
			if err != nil {
				return err
			}
			if result.Aborted {
				return nil
			}
			path = files[result.Index]
		}

		if err := app.prefs.Select(cmd.Context(), path, true); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"audio_file": path, "permanent": true})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔔 Alert sound saved: %s\n", path)
		return nil
	},
}

// findSoundFiles lists audio files below dirs, sorted and capped at limit.
// Missing directories are skipped.
func findSoundFiles(dirs []string, limit int) []string {
	var files []string
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != dir {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && isSoundFile(path) {
				files = append(files, path)
			}
			return nil
		})
	}
	sort.Strings(files)
	if len(files) > limit {
		files = files[:limit]
	}
	return files
}

func isSoundFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".aiff", ".aif", ".oga", ".ogg", ".mp3":
		return true
	}
	return false
}

var soundShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the alert sound",
	RunE: func(cmd *cobra.Command, args []string) error {
		pref := app.prefs.Current()
		if jsonOutput {
			var file any
			if pref.HasAudio() {
				file = pref.AudioFile
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"audio_file": file, "permanent": pref.Permanent})
		}
		if !pref.HasAudio() {
			fmt.Fprintln(cmd.OutOrStdout(), "No alert sound chosen.")
			return nil
		}
		scope := "this run only"
		if pref.Permanent {
			scope = "saved"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔔 %s (%s)\n", pref.AudioFile, scope)
		return nil
	},
}

var soundClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the alert sound",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.prefs.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear sound: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"cleared": true})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "🔕 Alert sound cleared.")
		return nil
	},
}

func init() {
	soundCmd.AddCommand(soundSetCmd, soundShowCmd, soundClearCmd)
}
