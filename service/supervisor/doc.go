// Package supervisor orchestrates slot submissions: it validates requests,
// spawns one worker per GPU slot, binds it through the registry, collects
// the worker output into the slot log and runs a periodic monitor that
// records worker completion without ever blocking on a worker.
//
// A running worker cannot be cancelled by the supervisor; Shutdown stops the
// monitor only.
package supervisor
