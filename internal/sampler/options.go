package sampler

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options controls probe cadence and pid discovery.
type Options struct {
	Delay         time.Duration
	PidRetries    int
	PidRetryDelay time.Duration
}

func NewOptions() *Options {
	return &Options{
		Delay:         300 * time.Millisecond,
		PidRetries:    10,
		PidRetryDelay: 200 * time.Millisecond,
	}
}

func (o *Options) Validate() error {
	if o.Delay <= 0 {
		return fmt.Errorf("delay must be positive, got %s", o.Delay)
	}
	if o.PidRetries < 1 {
		return fmt.Errorf("pid retries must be at least 1, got %d", o.PidRetries)
	}
	if o.PidRetryDelay < 0 {
		return fmt.Errorf("pid retry delay must not be negative, got %s", o.PidRetryDelay)
	}
	return nil
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.Delay, "delay", o.Delay, "pause between consecutive samples")
	fs.IntVar(&o.PidRetries, "pid-retries", o.PidRetries, "attempts to resolve the workload pid before giving up")
	fs.DurationVar(&o.PidRetryDelay, "pid-retry-delay", o.PidRetryDelay, "pause between pid lookups")
}
