// Package resilience collects the fault-tolerance building blocks shared
// by outbound integrations: a generic circuit breaker (with a
// database-specific variant), and retry-with-backoff helpers.
//
//	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callDependency()
//	})
package resilience
