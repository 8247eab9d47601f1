package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/config"
	clierrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/progress"
)

// watchPollInterval is the fallback poll cadence for editors whose
// rename-and-replace saves slip past fsnotify.
const watchPollInterval = time.Second

// errWatchQuit signals a clean user-requested exit from the watch loop.
var errWatchQuit = errors.New("watch quit")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Revalidate the changelog on every save",
	Long: `Watch the changelog file and revalidate it after each change.

Each save is re-parsed and re-checked against the structural rules,
and the result is printed as a timestamped line. The check runs after
a short quiet window (watch.debounce_ms) so editor save bursts produce
a single report.

Press q or Ctrl+C to stop watching.`,
	Example: `  chlog watch
  chlog watch --file docs/CHANGELOG.md
  chlog watch --plain`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	watchCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	path := resolveChangelogPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return clierrors.ChangelogNotFound(path)
	}

	// The watch loop compares event paths against the target, so both
	// must be absolute.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	session := newWatchSession(abs, cfg, cmd.OutOrStdout())
	return session.run(cmd.Context())
}

// watchSession holds the state of one `chlog watch` invocation: the
// watched file, terminal bookkeeping for raw keyboard mode, and the
// idle spinner.
type watchSession struct {
	path     string
	debounce time.Duration
	out      io.Writer
	symbols  progress.ProgressSymbols

	mu        sync.Mutex
	oldState  *term.State
	isRawMode bool
	stdinFd   int
	spin      *spinner.Spinner
}

func newWatchSession(path string, cfg *config.Configuration, out io.Writer) *watchSession {
	s := &watchSession{
		path:     path,
		debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
		out:      out,
		symbols:  symbolsFor(cfg),
		stdinFd:  int(os.Stdin.Fd()),
	}

	// The spinner writes to stderr so report lines on stdout stay clean.
	caps := progress.DetectTerminalCapabilities()
	if caps.IsTTY && !plainFlag {
		s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], 120*time.Millisecond,
			spinner.WithWriter(os.Stderr))
		s.spin.Suffix = " waiting for changes"
	}

	return s
}

// run validates once, then revalidates after each debounced change
// until the user quits or the context is cancelled.
func (s *watchSession) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory rather than the file itself: editors
	// that save via rename-and-replace give the file a new inode, which
	// silently detaches a file-level watch.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	keyCh := s.startKeyboardListener(ctx)
	defer s.restoreTerminal()

	fmt.Fprintf(s.out, "Watching %s (debounce %s, press q to quit)\n", s.path, s.debounce)
	s.check(time.Now())

	changes := make(chan time.Time, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.watchFiles(ctx, watcher, changes)
	})
	g.Go(func() error {
		return s.checkLoop(ctx, changes)
	})
	g.Go(func() error {
		return s.quitLoop(ctx, sigCh, keyCh)
	})

	err = g.Wait()
	s.stopSpinner()
	if errors.Is(err, errWatchQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watchFiles forwards change notifications for the watched file,
// polling the modification time as a backup for missed events.
func (s *watchSession) watchFiles(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- time.Time) error {
	ticker := time.NewTicker(watchPollInterval)
	defer ticker.Stop()

	lastMod := s.modTime()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			if event.Name != s.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				lastMod = s.modTime()
				notifyChange(changes)
			}
		case <-ticker.C:
			if mod := s.modTime(); mod.After(lastMod) {
				lastMod = mod
				notifyChange(changes)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("file watcher closed")
			}
			debugf("watch: %v", err)
		}
	}
}

// checkLoop debounces change notifications and runs a validation pass
// once the file has been quiet for the configured window.
func (s *watchSession) checkLoop(ctx context.Context, changes <-chan time.Time) error {
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			pending = time.After(s.debounce)
		case at := <-pending:
			pending = nil
			s.check(at)
		}
	}
}

// quitLoop waits for a quit signal: SIGINT/SIGTERM or a q/Ctrl+C key
// press from the raw-mode keyboard listener.
func (s *watchSession) quitLoop(ctx context.Context, sigCh <-chan os.Signal, keyCh <-chan byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sigCh:
			return errWatchQuit
		case key := <-keyCh:
			if key == 'q' || key == 'Q' || key == 3 { // 3 = Ctrl+C
				return errWatchQuit
			}
		}
	}
}

// check parses and validates the watched file and prints a one-line
// timestamped verdict, with issue detail indented below on failure.
func (s *watchSession) check(at time.Time) {
	s.stopSpinner()
	defer s.startSpinner()

	stamp := at.Format("15:04:05")

	doc, err := changelog.Load(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(s.out, "%s %s changelog missing: %s\n", s.symbols.Failure, stamp, s.path)
			return
		}
		var parseErr *changelog.ParseError
		if errors.As(err, &parseErr) {
			fmt.Fprintf(s.out, "%s %s %s\n", s.symbols.Failure, stamp, parseErr.Error())
			return
		}
		fmt.Fprintf(s.out, "%s %s %v\n", s.symbols.Failure, stamp, err)
		return
	}

	if issues := changelog.Validate(doc); len(issues) > 0 {
		fmt.Fprintf(s.out, "%s %s %d %s:\n", s.symbols.Failure, stamp,
			len(issues), pluralize("issue", "issues", len(issues)))
		for _, issue := range issues {
			fmt.Fprintf(s.out, "    %s\n", issue.String())
		}
		return
	}

	unreleased := 0
	if sec := doc.GetUnreleased(); sec != nil {
		unreleased = sec.Count()
	}
	fmt.Fprintf(s.out, "%s %s valid (%d unreleased %s)\n", s.symbols.Checkmark, stamp,
		unreleased, pluralize("entry", "entries", unreleased))
}

// notifyChange delivers a change notification without blocking. A full
// buffer means a reset is already on its way to the debouncer.
func notifyChange(changes chan<- time.Time) {
	select {
	case changes <- time.Now():
	default:
	}
}

// modTime returns the watched file's modification time, zero when the
// file is missing.
func (s *watchSession) modTime() time.Time {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// startKeyboardListener starts a goroutine reading single key presses.
// Returns a channel that receives key presses; when stdin is not a
// terminal the channel stays silent and only signals can quit.
func (s *watchSession) startKeyboardListener(ctx context.Context) <-chan byte {
	keyCh := make(chan byte, 1)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return keyCh
	}

	go s.keyboardLoop(ctx, keyCh)

	return keyCh
}

// keyboardLoop reads keyboard input in raw mode.
func (s *watchSession) keyboardLoop(ctx context.Context, keyCh chan<- byte) {
	oldState, err := term.MakeRaw(s.stdinFd)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.oldState = oldState
	s.isRawMode = true
	s.mu.Unlock()

	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return
		default:
			n, err := os.Stdin.Read(buf)
			if err != nil || n == 0 {
				continue
			}
			select {
			case keyCh <- buf[0]:
			default:
			}
		}
	}
}

// restoreTerminal restores the terminal to its original state.
func (s *watchSession) restoreTerminal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRawMode && s.oldState != nil {
		term.Restore(s.stdinFd, s.oldState)
		s.isRawMode = false
	}
}

func (s *watchSession) startSpinner() {
	if s.spin != nil {
		s.spin.Start()
	}
}

func (s *watchSession) stopSpinner() {
	if s.spin != nil {
		s.spin.Stop()
	}
}
