package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tonkit/tonkit/client"
	"github.com/tonkit/tonkit/common/concurrent"
	"github.com/tonkit/tonkit/common/logging"
)

const NodeWaitTick = time.Second

var ErrNoNodeCommand = errors.New("node command is not set")

type NodeParams struct {
	// Command is the node launcher executable.
	Command string
	Args    []string
}

// Dialer connects to the network. It is retried until the node answers.
type Dialer func(ctx context.Context) (client.Client, error)

// Up starts a local node, then waits until the network of the service answers.
func (s *Service) Up(ctx context.Context, p NodeParams, dial Dialer) error {
	if p.Command == "" {
		return ErrNoNodeCommand
	}
	if _, err := s.exec.Run(ctx, p.Command, p.Args...); err != nil {
		return err
	}
	s.logger.Info().Str(logging.FieldUrl, s.net.URL).Msg("Node started, waiting for it to answer")

	c, err := concurrent.WaitFor(ctx, s.net.Timeout, NodeWaitTick, func(ctx context.Context) (*client.Client, error) {
		c, err := dial(ctx)
		if err != nil {
			s.logger.Debug().Err(err).Msg("Node is not reachable yet")
			return nil, nil
		}
		if err := c.Ping(ctx); err != nil {
			c.Close()
			s.logger.Debug().Err(err).Msg("Node does not answer yet")
			return nil, nil
		}
		return &c, nil
	})
	if err != nil {
		return fmt.Errorf("node at %s did not answer: %w", s.net.URL, err)
	}
	(*c).Close()

	s.printer.Network(s.net.URL)
	return nil
}
