// guarddemo runs the library's demonstration programs, one per failure
// mode of scope-bound cleanup:
//
//	guarddemo mutex                  create, lock, unlock, destroy; exits 0
//	guarddemo mutex --hold           destroy while locked; process aborts
//	guarddemo file-auto PATH         write, implicit release; exits 0
//	guarddemo file-auto PATH --fail-flush
//	                                 flush fails at scope exit; process aborts
//	guarddemo file-explicit PATH --fail-flush
//	                                 flush fails at explicit close; the error
//	                                 is printed and the process exits 0
//	guarddemo unwind --fail N        N failing cleanups in one unwind; with
//	                                 2 the process aborts at the first
//	guarddemo interactive            pick scenarios from a TUI; each runs as
//	                                 a subprocess so aborts are observed
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chalkline/resguard"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "guarddemo",
		Short:         "Demonstrations of scope-bound resource guard failure modes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				if l, err := zap.NewDevelopment(); err == nil {
					resguard.SetLogger(l)
				}
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		mutexCmd(),
		fileAutoCmd(),
		fileExplicitCmd(),
		unwindCmd(),
		interactiveCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
