package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// SLAMonitor periodically sweeps open tickets and raises escalations for
// tickets approaching or breaching their resolution budget.
type SLAMonitor struct {
	escalations *service.EscalationService
	interval    time.Duration
	logger      *zap.Logger
	stop        chan struct{}
	done        chan struct{}
}

// NewSLAMonitor constructs the monitor.
func NewSLAMonitor(escalations *service.EscalationService, interval time.Duration, logger *zap.Logger) *SLAMonitor {
	return &SLAMonitor{
		escalations: escalations,
		interval:    interval,
		logger:      logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the sweep loop. One sweep runs immediately, then on every
// tick until Stop is called.
func (m *SLAMonitor) Start(ctx context.Context) {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.sweep(ctx)
		for {
			select {
			case <-ticker.C:
				m.sweep(ctx)
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and waits for the in-flight sweep to finish.
func (m *SLAMonitor) Stop() {
	close(m.stop)
	<-m.done
}

func (m *SLAMonitor) sweep(ctx context.Context) {
	raised, err := m.escalations.EvaluateOpenTickets(ctx, time.Now())
	if err != nil {
		m.logger.Error("sla sweep failed", zap.Error(err))
		return
	}
	if raised > 0 {
		m.logger.Info("sla sweep raised escalations", zap.Int("count", raised))
	}
}
