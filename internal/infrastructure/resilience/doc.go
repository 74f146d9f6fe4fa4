/*
Package resilience provides an opt-in circuit breaker for inference calls.

The breaker never retries. While open it rejects calls immediately with
ErrCircuitOpen, which callers surface like any other inference failure.
Caller cancellation (context.Canceled) does not count as a failure.

# Usage

	breaker := resilience.New("inference", resilience.Settings{
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	raw, err := resilience.Call(ctx, breaker, func(ctx context.Context) ([]byte, error) {
		return provider.Run(ctx, model, req)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           v
	                                         Open
*/
package resilience
