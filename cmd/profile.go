package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/boxoffice-cli/internal/analysis"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
	"github.com/KaramelBytes/boxoffice-cli/internal/source"
	"github.com/KaramelBytes/boxoffice-cli/internal/utils"
)

var (
	profOutputPath string
	profOutputDir  string
	profQuiet      bool
)

var profileCmd = &cobra.Command{
	Use:   "profile [files...]",
	Short: "Summarize movie tables: schema, column statistics, correlations and load notes",
	Long: `Profile one or more movie tables (CSV or XLSX; globs allowed) and print a
Markdown summary. Without arguments the configured data file is profiled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(cmd.ErrOrStderr(), args)
		if err != nil {
			return err
		}
		if len(files) > 1 && profOutputPath != "" {
			return fmt.Errorf("--output takes a single input; use --output-dir for %d files", len(files))
		}
		opts, err := loadOptions()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if total > 1 && !profQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			ds, err := movies.Load(path, opts...)
			if err != nil {
				return err
			}
			md := analysis.Profile(ds).Markdown()

			switch {
			case profOutputPath != "":
				if err := utils.SafeWriteFile(profOutputPath, []byte(md)); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				fmt.Fprintf(out, "✓ Wrote profile to %s\n", profOutputPath)
			case profOutputDir != "":
				outFile := summaryPath(profOutputDir, path)
				if err := utils.SafeWriteFile(outFile, []byte(md)); err != nil {
					return fmt.Errorf("write summary: %w", err)
				}
				if !profQuiet {
					fmt.Fprintf(out, "✓ Wrote profile to %s\n", outFile)
				}
			default:
				fmt.Fprintln(out, md)
			}
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates.
// Glob matches no reader handles are skipped with a warning on w.
// No arguments means the configured data file.
func expandInputs(w io.Writer, args []string) ([]string, error) {
	if len(args) == 0 {
		p, err := dataPath()
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		literal := false
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
				literal = true
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			if !literal && !source.Supported(m) {
				fmt.Fprintf(w, "⚠ Warning: skipping unsupported file %s\n", m)
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// summaryPath picks <dir>/<base>.summary.md, adding __2, __3, ... when a
// summary with that name already exists.
func summaryPath(dir, input string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if cfg != nil && cfg.SheetName != "" && strings.EqualFold(filepath.Ext(input), ".xlsx") {
		base += "__sheet-" + slug(cfg.SheetName)
	}
	outFile := filepath.Join(dir, base+".summary.md")
	if _, err := os.Stat(outFile); err != nil {
		return outFile
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.summary.md", base, idx))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' {
			b.WriteRune('-')
		}
	}
	if ss := strings.Trim(b.String(), "-"); ss != "" {
		return ss
	}
	return "sheet"
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVarP(&profOutputPath, "output", "o", "", "write the profile (Markdown) to this file")
	profileCmd.Flags().StringVar(&profOutputDir, "output-dir", "", "write one <name>.summary.md per input into this directory")
	profileCmd.Flags().BoolVarP(&profQuiet, "quiet", "q", false, "suppress progress output")
}
