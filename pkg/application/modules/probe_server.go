package modules

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"kiosk_commerce/pkg/probe"
)

type ProbeServer struct {
	Name          string
	Version       string
	ListenAddress string
	// Ready is optional, /ready always answers 200 without it.
	Ready probe.Checker
}

func (p ProbeServer) Run(ctx context.Context, g *errgroup.Group) {
	probeServer := probe.NewServer(
		p.ListenAddress,
		probe.Options{
			Name:    p.Name,
			Version: p.Version,
		},
	)

	if p.Ready != nil {
		probeServer = probeServer.WithReadiness(p.Ready)
	}

	g.Go(func() error {
		if err := probeServer.Run(ctx); err != nil {
			return fmt.Errorf("probeServer.Run: %w", err)
		}

		return nil
	})
}
