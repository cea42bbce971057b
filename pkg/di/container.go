// Package di provides dependency injection container
package di

import (
	"github.com/sirupsen/logrus"

	"github.com/andeb/obbutil/pkg/journal"
	"github.com/andeb/obbutil/pkg/metrics"
)

// JournalFactory opens the operation journal stored in dir
type JournalFactory func(dir string, log logrus.FieldLogger) (*journal.Journal, error)

// MetricsFactory creates the metrics for one invocation
type MetricsFactory func() *metrics.Metrics

// Container holds all the dependencies for the application
type Container struct {
	journalFactory JournalFactory
	metricsFactory MetricsFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		journalFactory: journal.Open,
		metricsFactory: metrics.NewMetrics,
	}
}

// GetJournalFactory returns the journal factory
func (c *Container) GetJournalFactory() JournalFactory {
	return c.journalFactory
}

// GetMetricsFactory returns the metrics factory
func (c *Container) GetMetricsFactory() MetricsFactory {
	return c.metricsFactory
}

// SetJournalFactory allows overriding the journal factory (for testing)
func (c *Container) SetJournalFactory(factory JournalFactory) {
	c.journalFactory = factory
}

// SetMetricsFactory allows overriding the metrics factory (for testing)
func (c *Container) SetMetricsFactory(factory MetricsFactory) {
	c.metricsFactory = factory
}
