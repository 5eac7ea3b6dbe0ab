package decay

import "time"

// Observer receives resolution statistics. Implemented by metrics.Recorder;
// NopObserver is the default.
type Observer interface {
	// ObservePass is called once per completed ProcessDecays pass.
	ObservePass(species int, elapsed time.Duration)

	// ObserveCacheHit is called when ProcessDecays reuses a snapshot.
	ObserveCacheHit()

	// ObserveTruncation is called whenever outcomes are dropped by the cap.
	ObserveTruncation(dropped int)

	// ObserveDistributionSize is called with the outcome count of every
	// resolved decaying species.
	ObserveDistributionSize(outcomes int)
}

// NopObserver discards all observations.
type NopObserver struct{}

func (NopObserver) ObservePass(int, time.Duration) {}
func (NopObserver) ObserveCacheHit()               {}
func (NopObserver) ObserveTruncation(int)          {}
func (NopObserver) ObserveDistributionSize(int)    {}
