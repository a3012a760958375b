package metrics

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Collector samples connection pool and runtime gauges on an interval.
type Collector struct {
	metrics   *Metrics
	logger    *zap.Logger
	db        *gorm.DB
	startTime time.Time
	stopCh    chan struct{}
}

func NewCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *Collector {
	return &Collector{
		metrics:   metrics,
		logger:    logger,
		db:        db,
		startTime: time.Now(),
		stopCh:    make(chan struct{}),
	}
}

func (c *Collector) Start(interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				return
			}
		}
	}()

	c.logger.Info("metrics collector started", zap.Duration("interval", interval))
}

func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.metrics.ServiceUptime.Set(time.Since(c.startTime).Seconds())
	c.metrics.Goroutines.Set(float64(runtime.NumGoroutine()))

	if c.db == nil {
		return
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		c.logger.Warn("metrics collector cannot reach sql.DB", zap.Error(err))
		return
	}

	stats := sqlDB.Stats()
	c.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	c.metrics.DBConnectionsIdle.Set(float64(stats.Idle))
	c.metrics.DBWaitCount.Set(float64(stats.WaitCount))
}
