// Command capnpc-go is a Cap'n Proto schema compiler plugin: the
// compiler execs it with a CodeGeneratorRequest on stdin and expects one
// Go source file per requested schema file written to disk alongside it.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/brimtide/capnpc-go/internal/codegen"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd wires a cobra command even though spec §6 calls for zero
// flags: the teacher's own binaries all go through cobra.Command for
// their entrypoint, and RunE's error return is what drives the process
// exit code spec §6/§7 requires ("non-zero on I/O failure or
// unsupported construct").
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "capnpc-go",
		Short:         "Cap'n Proto code generator plugin for Go",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.InOrStdin(), cmd.ErrOrStderr())
		},
	}
	return cmd
}

func run(stdin io.Reader, stderr io.Writer) error {
	diag := codegen.NewDiagnostics(stderr)

	files, err := codegen.Run(stdin, diag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}

	// spec §7: no partial output. Every GeneratedFile is already fully
	// rendered in memory by the time Run returns, so the only remaining
	// failure mode is a write error -- surfaced per-file, aborting
	// before any further file is written.
	for _, f := range files {
		if err := os.WriteFile(f.GoPath, []byte(f.Source), 0o644); err != nil {
			fmt.Fprintln(stderr, err)
			return err
		}
	}
	return nil
}
