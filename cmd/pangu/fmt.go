package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/tassa-yoniso-manasi-karoto/go-pangu"
	"github.com/tassa-yoniso-manasi-karoto/go-pangu/editor"
)

var errNeedsFormatting = errors.New("fmt: formatting changes required")

// extensions walked when a directory is given
var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

type formatResult struct {
	Path      string
	Formatted string
	Changed   bool
	Err       error
}

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] [path...]",
		Short: "Format files, or stdin when no path is given",
		RunE:  runFmt,
	}
	cmd.Flags().Bool("check", false, "list files whose formatting differs and exit 1 if any")
	cmd.Flags().BoolP("write", "w", false, "rewrite files in place instead of printing them")
	cmd.Flags().Int("indent", 2, "spaces per tab in indentation (2|4)")
	cmd.Flags().Bool("embedded", false, "also format the inside of code spans")
	cmd.Flags().IntP("jobs", "j", 0, "files formatted in parallel (default GOMAXPROCS)")
	cmd.Flags().String("cursor", "", "stdin only: cursor as line:ch, prints a JSON result with the restored cursor")
	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	cursor, err := cmd.Flags().GetString("cursor")
	if err != nil {
		return err
	}
	if check && write {
		return fmt.Errorf("fmt: --check cannot be used with --write")
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		if write {
			return fmt.Errorf("fmt: --write needs file paths")
		}
		return fmtStdin(cmd, cfg, check, cursor)
	}
	if cursor != "" {
		return fmt.Errorf("fmt: --cursor only works on stdin")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	results, err := formatPaths(ctx, files, cfg, jobs)
	if err != nil {
		return err
	}

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	var failed bool
	var changed []string
	for _, res := range results {
		if res.Err != nil {
			failed = true
			fmt.Fprintf(errOut, "%s %s: %v\n", color.Red.Sprint("fmt:"), res.Path, res.Err)
			continue
		}
		switch {
		case check:
			if res.Changed {
				changed = append(changed, res.Path)
				fmt.Fprintln(out, color.Yellow.Sprint(res.Path))
			}
		case write:
			if !res.Changed {
				continue
			}
			if err := writeFile(res.Path, res.Formatted); err != nil {
				failed = true
				fmt.Fprintf(errOut, "%s %s: %v\n", color.Red.Sprint("fmt:"), res.Path, err)
				continue
			}
			fmt.Fprintf(out, "%s %s\n", color.Green.Sprint("reformatted"), res.Path)
		default:
			io.WriteString(out, res.Formatted)
		}
	}

	if failed {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && len(changed) > 0 {
		fmt.Fprintf(errOut, "run: %s\n", shellescape.QuoteCommand(append([]string{"pangu", "fmt", "-w"}, changed...)))
		return errNeedsFormatting
	}
	return nil
}

func fmtStdin(cmd *cobra.Command, cfg pangu.Config, check bool, cursor string) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("fmt: failed to read stdin: %w", err)
	}
	in := string(data)
	out := cmd.OutOrStdout()

	if cursor != "" {
		pos, err := parseCursor(cursor)
		if err != nil {
			return err
		}
		return fmtWithCursor(out, in, pos, cfg)
	}

	formatted := formatText(in, cfg)
	if check {
		if formatted != in {
			fmt.Fprintln(out, color.Yellow.Sprint("<stdin>"))
			return errNeedsFormatting
		}
		return nil
	}
	_, err = io.WriteString(out, formatted)
	return err
}

// fmtWithCursor runs the editor round trip on an in-memory buffer and prints
// the buffer and the restored cursor as JSON.
func fmtWithCursor(w io.Writer, text string, pos editor.Position, cfg pangu.Config) error {
	buf := editor.NewBuffer(text)
	buf.SetCursor(pos)
	res := editor.Apply(buf, cfg)

	payload, err := json.Marshal(struct {
		Text     string          `json:"text"`
		Cursor   editor.Position `json:"cursor"`
		Restored bool            `json:"restored"`
		Changed  bool            `json:"changed"`
	}{buf.GetValue(), res.Cursor, res.Restored, res.Changed})
	if err != nil {
		return fmt.Errorf("fmt: failed to encode result: %w", err)
	}
	_, err = w.Write(pretty.Pretty(payload))
	return err
}

func parseCursor(s string) (editor.Position, error) {
	line, ch, ok := strings.Cut(s, ":")
	if !ok {
		return editor.Position{}, fmt.Errorf("fmt: cursor %q: want line:ch", s)
	}
	l, err := strconv.Atoi(line)
	if err != nil {
		return editor.Position{}, fmt.Errorf("fmt: cursor line %q: %w", line, err)
	}
	c, err := strconv.Atoi(ch)
	if err != nil {
		return editor.Position{}, fmt.Errorf("fmt: cursor column %q: %w", ch, err)
	}
	return editor.Position{Line: l, Ch: c}, nil
}

// formatText formats a whole file. The engine trims the text; a final line
// break present in the input is put back.
func formatText(in string, cfg pangu.Config) string {
	out := pangu.Format(in, cfg)
	if out != "" && strings.HasSuffix(in, "\n") {
		out += "\n"
	}
	return out
}

func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("fmt: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if textExtensions[strings.ToLower(filepath.Ext(p))] {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("fmt: failed to walk %s: %w", path, err)
		}
	}
	if len(files) == 0 {
		return nil, errors.New("fmt: no text files found")
	}
	return files, nil
}

// formatPaths formats files concurrently. Results keep the order of files;
// per-file failures are reported in the result, not as the returned error.
func formatPaths(ctx context.Context, files []string, cfg pangu.Config, jobs int) ([]formatResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]formatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			res := formatResult{Path: path}
			data, err := os.ReadFile(path)
			if err != nil {
				res.Err = err
			} else {
				in := string(data)
				res.Formatted = formatText(in, cfg)
				res.Changed = res.Formatted != in
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func writeFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, []byte(content), mode.Perm())
}
