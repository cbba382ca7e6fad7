package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chalkline/resguard/file"
	"github.com/chalkline/resguard/mutex"
	"github.com/chalkline/resguard/scope"
	"github.com/chalkline/resguard/track"
)

const greeting = "Hello, from resguard.\n"

func defaultLockPath() string {
	return filepath.Join(os.TempDir(), "guarddemo.lock")
}

func mutexCmd() *cobra.Command {
	var (
		hold     bool
		lockPath string
	)
	cmd := &cobra.Command{
		Use:   "mutex",
		Short: "Create, lock, unlock and destroy a mutex guard",
		Long: `Creates a mutex guard, locks and unlocks it, and lets it leave scope.

With --hold the guard leaves scope still locked. Destroying a locked mutex
is a logic error with no error channel at scope-exit time: the process
terminates with the platform abort signal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutex(lockPath, hold)
		},
	}
	cmd.Flags().BoolVar(&hold, "hold", false, "leave the mutex locked at scope exit")
	cmd.Flags().StringVar(&lockPath, "lockfile", defaultLockPath(), "lock file backing the mutex")
	return cmd
}

func runMutex(path string, hold bool) error {
	m, err := mutex.New(path)
	if err != nil {
		return err
	}
	defer m.Release()

	if err := m.Lock(); err != nil {
		return err
	}
	fmt.Println("mutex locked")

	if hold {
		fmt.Println("leaving scope without unlocking")
		return nil
	}

	if err := m.Unlock(); err != nil {
		return err
	}
	fmt.Println("mutex unlocked")
	return nil
}

func fileAutoCmd() *cobra.Command {
	var (
		failFlush bool
		wait      bool
	)
	cmd := &cobra.Command{
		Use:   "file-auto PATH",
		Short: "Write through a file guard and rely on the implicit release",
		Long: `Creates a file guard at PATH, writes a greeting into its buffer and lets
the guard leave scope without an explicit close.

With --fail-flush the underlying stream reports a stale handle when the
buffer is flushed, the way a network-backed filesystem fails after a
disconnect. The implicit release has no error channel, so the process
terminates with the platform abort signal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFileAuto(args[0], failFlush, wait)
		},
	}
	cmd.Flags().BoolVar(&failFlush, "fail-flush", false, "make the flush at close time fail")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for Enter before leaving scope")
	return cmd
}

func runFileAuto(path string, failFlush, wait bool) error {
	f, err := openGuard(path, failFlush)
	if err != nil {
		return err
	}
	defer f.Release()

	if err := f.Write([]byte(greeting)); err != nil {
		return err
	}
	if wait {
		waitForEnter()
	}
	return nil
}

func fileExplicitCmd() *cobra.Command {
	var (
		failFlush bool
		wait      bool
	)
	cmd := &cobra.Command{
		Use:   "file-explicit PATH",
		Short: "Write through a file guard and close it explicitly",
		Long: `Like file-auto, but the owner calls Close before the guard leaves scope.

With --fail-flush the close fails; the failure is printed, the handle is
already invalid, the deferred release is a no-op and the process exits 0.
The explicit close is the escape hatch for environmental errors that caller
discipline cannot prevent.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFileExplicit(cmd.OutOrStdout(), args[0], failFlush, wait)
		},
	}
	cmd.Flags().BoolVar(&failFlush, "fail-flush", false, "make the flush at close time fail")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for Enter before closing")
	return cmd
}

func runFileExplicit(out io.Writer, path string, failFlush, wait bool) error {
	f, err := openGuard(path, failFlush)
	if err != nil {
		return err
	}
	defer f.Release()

	if err := f.Write([]byte(greeting)); err != nil {
		return err
	}
	if wait {
		waitForEnter()
	}

	if err := f.Close(); err != nil {
		fmt.Fprintf(out, "close failed, continuing: %v\n", err)
	} else {
		fmt.Fprintln(out, "closed cleanly")
	}
	return nil
}

func openGuard(path string, failFlush bool) (*file.File, error) {
	if failFlush {
		return file.NewWriter(&staleSink{}, path), nil
	}
	return file.Create(path)
}

// staleSink simulates a descriptor whose backing store went away after the
// stream was opened: every flush attempt fails.
type staleSink struct{}

func (*staleSink) Write([]byte) (int, error) { return 0, errors.New("stale file handle") }
func (*staleSink) Close() error              { return nil }

func waitForEnter() {
	fmt.Fprint(os.Stderr, "press Enter to leave scope... ")
	r := bufio.NewReader(os.Stdin)
	_, _ = r.ReadString('\n')
}

func unwindCmd() *cobra.Command {
	var failures int
	cmd := &cobra.Command{
		Use:   "unwind",
		Short: "Release several guards in one unwind, with optional failures",
		Long: `Registers three named cleanups (alpha, bravo, charlie) in a scope and
exits it, narrating each lifecycle transition on stderr. Cleanups run in
reverse order: charlie, bravo, alpha.

With --fail 1, charlie's cleanup fails; the failure propagates to the
caller as an ordinary error and the process exits 0. With --fail 2, alpha's
cleanup also fails while charlie's failure is still in flight; only one
propagating cleanup failure is allowed at a time, so the process terminates,
surfacing charlie's error. Alpha's never does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runUnwind(failures)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "caught cleanup failure: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&failures, "fail", 0, "number of failing cleanups (0-2)")
	return cmd
}

func runUnwind(failures int) (err error) {
	reg := track.NewRegistry()
	reg.Subscribe(&narrator{out: os.Stderr})

	s := scope.NewObserved(reg)
	defer s.Exit(&err)

	fail := func(name string) func() error {
		return func() error { return fmt.Errorf("cleanup of %s failed", name) }
	}
	ok := func() error { return nil }

	// alpha registered first is released last.
	if failures >= 2 {
		s.Defer("alpha", fail("alpha"))
	} else {
		s.Defer("alpha", ok)
	}
	s.Defer("bravo", ok)
	if failures >= 1 {
		s.Defer("charlie", fail("charlie"))
	} else {
		s.Defer("charlie", ok)
	}

	fmt.Fprintln(os.Stderr, "leaving scope")
	return nil
}

// narrator prints one line per lifecycle transition, in the manner of the
// begin/end traces the failure modes are usually demonstrated with.
type narrator struct {
	out io.Writer
}

func (n *narrator) OnGuardEvent(e track.Event) {
	switch e.Type {
	case track.EventAcquired:
		fmt.Fprintf(n.out, "acquired %s\n", e.Name)
	case track.EventReleased:
		fmt.Fprintf(n.out, "released %s\n", e.Name)
	case track.EventReleaseFailed:
		fmt.Fprintf(n.out, "release of %s failed: %v\n", e.Name, e.Err)
	}
}
