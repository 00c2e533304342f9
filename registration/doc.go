// Package registration drives the self-registration flow.
//
// A Controller owns the observable State of one registration view. A
// submission moves it through
//
//	Idle -> Submitting -> Failed
//	Idle -> Submitting -> Succeeded -> Idle (after the redirect delay)
//
// Every mutation is published to subscribers as a StateChanged event.
// Focus, Clear and Redirect events are rendering directives: they never
// change State.
//
// Submit runs a submission to completion. Begin returns a Submission whose
// Step method advances one suspension point at a time (loading emitted,
// provider resolved, redirect fired) so intermediate states can be
// observed and asserted.
package registration
