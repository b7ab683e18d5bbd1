package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhr3/skipscan/ascii"
	"github.com/mhr3/skipscan/bm"
	"github.com/mhr3/skipscan/internal/watch"
	"github.com/mhr3/skipscan/utf8"
	"github.com/spf13/cobra"
)

const stdinName = "(standard input)"

type searchOpts struct {
	count      bool
	filesMatch bool
	runes      bool
	ignoreCase bool
}

// finder is a prepared pattern over either bytes or runes.
type finder struct {
	m     bm.Matcher
	rm    bm.RuneMatcher
	runes bool
	fold  bool
}

func newFinder(pattern string, o searchOpts) finder {
	if o.ignoreCase {
		pattern = ascii.Lower(pattern)
	}
	f := finder{runes: o.runes, fold: o.ignoreCase}
	if o.runes {
		f.rm = bm.NewRunesString(pattern)
	} else {
		f.m = bm.New(pattern)
	}
	return f
}

// find returns byte offsets, or rune offsets when built for runes.
// ASCII folding keeps every byte in place, so offsets hold for the input.
func (f finder) find(data []byte) []int {
	if f.fold {
		text := ascii.Lower(string(data))
		if f.runes {
			return f.rm.SearchString(text)
		}
		return f.m.Search(text)
	}
	if f.runes {
		return f.rm.SearchString(string(data))
	}
	return f.m.SearchBytes(data)
}

func (a *app) searchCmd() *cobra.Command {
	var o searchOpts
	c := &cobra.Command{
		Use:   "search [flags] <pattern> [file ...]",
		Short: "Print the offset of every occurrence of pattern",
		Long: "Prints name:offset for each occurrence, overlapping ones included. " +
			"Reads stdin when no file is given. Exit status is 0 on a match, 1 on none, 2 on error.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(cmd, o, args[0], args[1:])
		},
	}
	c.Flags().BoolVarP(&o.ignoreCase, "ignore-case", "i", false, "Ignore ASCII case")
	c.Flags().BoolVarP(&o.count, "count", "c", false, "Print only a count of matches per input")
	c.Flags().BoolVarP(&o.filesMatch, "files-with-matches", "l", false, "Print only names of inputs with a match")
	c.Flags().BoolVar(&o.runes, "runes", false, "Report offsets in runes instead of bytes")
	return c
}

func (a *app) runSearch(cmd *cobra.Command, o searchOpts, pattern string, files []string) error {
	f := newFinder(pattern, o)
	out := cmd.OutOrStdout()
	multi := len(files) > 1

	matched, failed := false, false
	report := func(name string, data []byte) {
		if f.runes && !utf8.ValidString(string(data)) {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipscan: %s: invalid UTF-8, each bad byte counts as one rune\n", name)
		}
		start := time.Now()
		offs := f.find(data)
		a.debugf(cmd, "%s: %d bytes, %d matches in %s", name, len(data), len(offs), time.Since(start))
		if len(offs) > 0 {
			matched = true
		}
		printMatches(out, name, offs, o, multi)
	}

	if len(files) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		report(stdinName, data)
	}
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipscan: %v\n", err)
			failed = true
			continue
		}
		report(name, data)
	}

	switch {
	case failed:
		return exitError{2}
	case !matched:
		return exitError{1}
	}
	return nil
}

func printMatches(w io.Writer, name string, offs []int, o searchOpts, withName bool) {
	switch {
	case o.filesMatch:
		if len(offs) > 0 {
			fmt.Fprintln(w, name)
		}
	case o.count:
		if withName {
			fmt.Fprintf(w, "%s:%d\n", name, len(offs))
		} else {
			fmt.Fprintln(w, len(offs))
		}
	default:
		for _, off := range offs {
			if withName {
				fmt.Fprintf(w, "%s:%d\n", name, off)
			} else {
				fmt.Fprintln(w, off)
			}
		}
	}
}

func (a *app) watchCmd() *cobra.Command {
	var o searchOpts
	c := &cobra.Command{
		Use:   "watch [flags] <pattern> <path>",
		Short: "Rescan files for pattern whenever they change",
		Long:  "Watches a file or directory and prints name:offset for every occurrence each time a file is written. Runs until interrupted.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runWatch(ctx, cmd, o, args[0], args[1])
		},
	}
	c.Flags().BoolVarP(&o.count, "count", "c", false, "Print only a count of matches per change")
	c.Flags().BoolVarP(&o.ignoreCase, "ignore-case", "i", false, "Ignore ASCII case")
	c.Flags().BoolVar(&o.runes, "runes", false, "Report offsets in runes instead of bytes")
	return c
}

func (a *app) runWatch(ctx context.Context, cmd *cobra.Command, o searchOpts, pattern, path string) error {
	w, err := watch.New()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Stop()

	sc := changeScanner{
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		f:        newFinder(pattern, o),
		o:        o,
		readFile: os.ReadFile,
	}
	err = w.Watch(path, sc.scan)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	a.debugf(cmd, "watching %s", path)
	<-ctx.Done()
	return nil
}

// changeScanner searches files reported by the watcher.
type changeScanner struct {
	out, errOut io.Writer
	f           finder
	o           searchOpts
	readFile    func(string) ([]byte, error)
}

// scan searches a file that just changed. Removed files and directories are
// skipped; read errors are reported like search does.
func (s changeScanner) scan(name string) {
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	data, err := s.readFile(name)
	if err != nil {
		fmt.Fprintf(s.errOut, "skipscan: %v\n", err)
		return
	}
	offs := s.f.find(data)
	if len(offs) == 0 && !s.o.count {
		return
	}
	printMatches(s.out, name, offs, s.o, true)
}
