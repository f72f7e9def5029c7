package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"srcmark/internal/checker"
	"srcmark/internal/diag"
	"srcmark/internal/diagfmt"
	"srcmark/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] path",
	Short: "Check a file or directory for delimiter and whitespace problems",
	Long: `Check loads source files into a source map, scans them, and renders any
findings with line/column context`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short)")
	checkCmd.Flags().String("config", "srcmark.toml", "config file path")
	checkCmd.Flags().String("ext", "", "file extension filter for directories")
	checkCmd.Flags().String("path-mode", "", "origin display (auto|absolute|relative|basename)")
	checkCmd.Flags().Uint8("tab-width", 0, "expand tabs in snippets to N spaces (0 keeps tabs)")
	checkCmd.Flags().Uint16("width", 0, "maximum snippet line width (0 = fit the terminal)")
	checkCmd.Flags().Bool("cache", false, "reuse cached results by content hash (implies short output)")
	checkCmd.Flags().Bool("notes", true, "show secondary notes")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	target := args[0]

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ext := cfg.Extension
	if cmd.Flags().Changed("ext") {
		ext, _ = cmd.Flags().GetString("ext")
	}
	pathMode := cfg.PathMode
	if cmd.Flags().Changed("path-mode") {
		pathMode, _ = cmd.Flags().GetString("path-mode")
	}
	tabWidth := cfg.TabWidth
	if cmd.Flags().Changed("tab-width") {
		tabWidth, _ = cmd.Flags().GetUint8("tab-width")
	}
	maxDiagnostics := cfg.MaxDiagnostics
	if cmd.Root().PersistentFlags().Changed("max-diagnostics") {
		maxDiagnostics, _ = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	}
	format, _ := cmd.Flags().GetString("format")
	useCache, _ := cmd.Flags().GetBool("cache")
	showNotes, _ := cmd.Flags().GetBool("notes")
	width, _ := cmd.Flags().GetUint16("width")
	if width == 0 {
		if w := terminalWidth(os.Stdout); w > 0 && w <= 65535 {
			width = uint16(w)
		}
	}

	sm := source.NewSourceMap()
	var ids []source.EntryID

	st, err := os.Stat(target)
	if err != nil {
		return err
	}
	if st.IsDir() {
		ids, err = sm.LoadDirectory(target, ext)
	} else {
		var id source.EntryID
		id, err = sm.LoadFile(target)
		ids = append(ids, id)
	}
	if err != nil {
		return err
	}

	var cache *checker.Cache
	if useCache {
		cache, err = checker.OpenCache("srcmark")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
	}

	bag := diag.NewBag(maxDiagnostics)
	var cached []string

	for _, id := range ids {
		if cache != nil {
			hit, lines, err := checkCached(cache, sm, id)
			if err != nil {
				return err
			}
			if hit {
				cached = append(cached, lines...)
				continue
			}
		}
		entryBag := diag.NewBag(maxDiagnostics)
		if err := checker.Check(sm, id, diag.BagReporter{Bag: entryBag}); err != nil {
			return err
		}
		if cache != nil {
			if err := storeCached(cache, sm, id, entryBag, showNotes); err != nil {
				return err
			}
		}
		bag.Merge(entryBag)
	}

	bag.Sort()
	bag.Dedup()

	for _, line := range cached {
		fmt.Fprintln(os.Stdout, line)
	}

	if useCache || format == "short" {
		if out := diagfmt.FormatShort(bag.Items(), sm, showNotes); out != "" {
			fmt.Fprintln(os.Stdout, out)
		}
	} else {
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
		opts := diagfmt.PrettyOpts{
			Color:     colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)),
			PathMode:  diagfmt.ParsePathMode(pathMode),
			TabWidth:  tabWidth,
			Width:     width,
			ShowNotes: showNotes,
		}
		if err := diagfmt.RenderAll(os.Stdout, bag, sm, opts); err != nil {
			return err
		}
	}

	if bag.HasErrors() {
		return fmt.Errorf("found problems in %d file(s)", errorEntryCount(bag))
	}
	return nil
}

// errorEntryCount counts the distinct entries that produced at least one
// error. Errors without a location count as one extra bucket.
func errorEntryCount(bag *diag.Bag) int {
	seen := make(map[source.EntryID]struct{})
	for _, d := range bag.Items() {
		if d.Severity != diag.SevError {
			continue
		}
		var id source.EntryID
		if d.Primary != nil {
			id = d.Primary.Entry()
		}
		seen[id] = struct{}{}
	}
	return len(seen)
}

func checkCached(cache *checker.Cache, sm *source.SourceMap, id source.EntryID) (bool, []string, error) {
	hash, err := sm.Hash(id)
	if err != nil {
		return false, nil, err
	}
	var payload checker.Payload
	hit, err := cache.Get(hash, &payload)
	if err != nil || !hit {
		return false, nil, err
	}
	return true, payload.Lines, nil
}

func storeCached(cache *checker.Cache, sm *source.SourceMap, id source.EntryID, bag *diag.Bag, showNotes bool) error {
	hash, err := sm.Hash(id)
	if err != nil {
		return err
	}
	origin, err := sm.Origin(id)
	if err != nil {
		return err
	}
	var lines []string
	if out := diagfmt.FormatShort(bag.Items(), sm, showNotes); out != "" {
		lines = strings.Split(out, "\n")
	}
	return cache.Put(hash, &checker.Payload{Origin: origin, Lines: lines})
}
