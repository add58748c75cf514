// Package gpuslot provides a control plane supervising GPU-bound batch
// workers, one worker per physical GPU slot.
//
// The service exposes slot lifecycle (idle, running, finished, failed) and
// the textual slot logs to callers such as a web front end:
//
//	srv, _ := gpuslot.New(ctx, gpuslot.WithConfig(cfg))
//	_ = srv.Start(ctx)
//	ok, message := srv.Submit(ctx, 0, &slot.TaskRequest{InputPath: "input.fasta"})
//	statuses := srv.Statuses()
//	log := srv.Log(0)
//
// A finished or failed slot accepts a new submission only after Reset.
package gpuslot
