package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/config"
	"github.com/notargets/scatter/protocol"
	"github.com/notargets/scatter/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	transport  string
	procs      int
	logLevel   string
	device     bool
}

var workloadCommands = []struct {
	use, workload, short string
}{
	{"reduce", "reduction", "Sum an array of pseudo-random integers"},
	{"stencil", "stencil", "Differentiate a 2-D field with a finite-difference stencil"},
	{"matmul", "matmul", "Multiply dense square matrices by row blocks"},
	{"greet", "greeting", "Collect a greeting from every worker"},
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "scatter",
		Short:         "Coordinator/worker scatter, compute and gather workloads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "YAML or TOML run configuration")
	pf.StringVar(&opts.transport, "transport", "", "participant transport: local or mpi")
	pf.IntVar(&opts.procs, "procs", 0, "participants for the local transport")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVar(&opts.device, "device", false, "run stencil and matmul kernels through OCCA")
	// -mpi-addr and -mpi-alladdr belong to github.com/btracey/mpi
	pf.AddGoFlagSet(flag.CommandLine)

	all := make([]string, 0, len(workloadCommands))
	for _, wc := range workloadCommands {
		names := []string{wc.workload}
		all = append(all, wc.workload)
		root.AddCommand(&cobra.Command{
			Use:   wc.use,
			Short: wc.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, opts, names)
			},
		})
	}
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every workload in turn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, all)
		},
	})
	return root
}

// normalizeArgs accepts the single-dash -mpi-* spelling of the btracey/mpi
// flags
func normalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if strings.HasPrefix(a, "-mpi-") {
			a = "-" + a
		}
		out[i] = a
	}
	return out
}

// loadConfig layers the command line over the configuration file over the
// defaults
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	if opts.transport != "" {
		cfg.Transport = opts.transport
	}
	if opts.procs != 0 {
		cfg.Procs = opts.procs
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.device {
		cfg.Stencil.Device = true
		cfg.MatMul.Device = true
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, opts *options, names []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fail(cmd, err)
	}
	logger, err := utils.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return fail(cmd, err)
	}
	out := cmd.OutOrStdout()

	switch cfg.Transport {
	case config.TransportMPI:
		network, err := comm.NewNetwork(logrus.NewEntry(logger))
		if err != nil {
			return fatal(logger, err)
		}
		defer network.Close()
		err = runParticipant(network, cfg, names, logger, out)
		if err != nil {
			return fatal(logger, err)
		}
	default:
		world := comm.NewWorld(cfg.Procs)
		err := world.Run(cmd.Context(), func(c comm.Communicator) error {
			return runParticipant(c, cfg, names, logger, out)
		})
		if err != nil {
			return fatal(logger, err)
		}
	}
	return nil
}

// runParticipant evaluates every named workload as one participant
func runParticipant(c comm.Communicator, cfg *config.Config, names []string,
	logger *logrus.Logger, out io.Writer) error {
	for _, name := range names {
		log := utils.ParticipantLog(logger, c.Rank(), c.Size(), name)
		w, sizes, cleanup, err := newWorkload(cfg, name, c.Rank(), log)
		if err != nil {
			return err
		}
		d := &protocol.Driver{Workload: w, Sizes: sizes}
		if c.Rank() == comm.Root {
			d.Out = out
		}
		_, err = d.Run(protocol.NewSession(c, log))
		cleanup()
		if err != nil {
			return err
		}
	}
	return nil
}

func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), "scatter:", err)
	return err
}

func fatal(logger *logrus.Logger, err error) error {
	logger.WithError(err).Error("run aborted")
	return err
}
