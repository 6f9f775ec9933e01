/*
Package memory keeps the process inside its container memory limit.

Two pieces work together. SetLimitFromEnv turns the container memory limit
into a GOMEMLIMIT at startup, scaled down so the Go heap leaves headroom
for everything the runtime cannot see: hashing buffers in flight, the
SQLite driver's CGO allocations, and goroutine stacks. Monitor then samples
heap allocation on an interval and pauses the file-processing workers when
usage crosses the pause watermark, resuming once a forced GC and normal
catalog writes bring it back under the resume watermark.

Workers opt in by calling WaitIfPaused before picking up a file:

	memory.SetLimitFromEnv()

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	runner := scanner.NewRunner(sc, engine, scanWorkers)
	runner.SetMemoryMonitor(monitor)

A process with no limit at all (no GOMEMLIMIT, no MEMORY_LIMIT) gets an
inert monitor: nothing samples and WaitIfPaused never blocks.

Kubernetes wiring via the Downward API:

	env:
	  - name: MEMORY_LIMIT
	    valueFrom:
	      resourceFieldRef:
	        resource: limits.memory
	  - name: MEMORY_RATIO
	    value: "0.75"
*/
package memory
