package switchover

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	readyInitialInterval = 250 * time.Millisecond
	readyMaxInterval     = 5 * time.Second
)

// waitReady polls the restarted local server until it accepts a connection
// and answers a ping, or until the configured timeout elapses.
func (o *Orchestrator) waitReady(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = readyInitialInterval
	b.MaxInterval = readyMaxInterval
	b.MaxElapsedTime = o.readyTimeout
	b.Reset()

	attempt := func() error {
		session, err := o.dialer.OpenLocal(ctx)
		if err != nil {
			return err
		}
		defer o.closeSession(ctx, session)

		return session.Ping(ctx)
	}

	notify := func(err error, next time.Duration) {
		o.logger.Info("Local server not ready", "err", err, "retry_in", next)
	}

	if err := backoff.RetryNotify(attempt, backoff.WithContext(b, ctx), notify); err != nil {
		return &Error{
			Kind:       KindConnection,
			Step:       StepRestartAsStandby,
			Detail:     "local server did not accept connections within " + o.readyTimeout.String(),
			Err:        err,
			ActionDone: true,
		}
	}

	o.logger.Info("Local server is accepting connections")
	return nil
}
