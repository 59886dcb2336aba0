package main

import (
	"fmt"

	"github.com/notargets/scatter/comm"
	"github.com/notargets/scatter/config"
	"github.com/notargets/scatter/kernels/occa"
	"github.com/notargets/scatter/protocol"
	"github.com/notargets/scatter/utils"
	"github.com/sirupsen/logrus"
)

// newWorkload builds one participant's instance of a workload and its size
// list. cleanup releases any device the instance holds.
func newWorkload(cfg *config.Config, name string, rank int, log *logrus.Entry) (
	w protocol.Workload, sizes []int, cleanup func(), err error) {
	cleanup = func() {}
	withDevice := func(wanted bool) *occa.Device {
		device := utils.CreateDevice(wanted, log)
		if device != nil {
			cleanup = device.Free
		}
		return device
	}

	switch name {
	case "reduction":
		return protocol.Reduction{
			Seed:     cfg.Reduction.Seed,
			MaxValue: cfg.Reduction.MaxValue,
		}, cfg.Reduction.Sizes, cleanup, nil
	case "stencil":
		st := protocol.Stencil{Dx: cfg.Stencil.Dx, Device: withDevice(cfg.Stencil.Device)}
		return st, cfg.Stencil.Sizes, cleanup, nil
	case "matmul":
		if rank == comm.Root {
			log.Warn("matmul operands come from an unseeded source; products are not reproducible")
		}
		mm := protocol.MatMul{MaxValue: cfg.MatMul.MaxValue, Device: withDevice(cfg.MatMul.Device)}
		return mm, cfg.MatMul.Sizes, cleanup, nil
	case "greeting":
		rounds := make([]int, cfg.Greeting.Rounds)
		for i := range rounds {
			rounds[i] = i + 1
		}
		return protocol.Greeting{}, rounds, cleanup, nil
	default:
		return nil, nil, cleanup, fmt.Errorf("unknown workload %q", name)
	}
}
