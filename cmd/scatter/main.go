// Command scatter runs the scatter/compute/gather workloads over either an
// in-process participant set or a set of processes connected by
// github.com/btracey/mpi.
//
// Local, four participants:
//
//	scatter reduce --procs 4
//
// Three processes on one machine, one per terminal:
//
//	scatter matmul --transport mpi -mpi-addr=":5000" -mpi-alladdr=":5000,:5001,:5002"
//	scatter matmul --transport mpi -mpi-addr=":5001" -mpi-alladdr=":5000,:5001,:5002"
//	scatter matmul --transport mpi -mpi-addr=":5002" -mpi-alladdr=":5000,:5001,:5002"
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand()
	root.SetArgs(normalizeArgs(os.Args[1:]))
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
