/*
Package workers decides how many goroutines the scan and watch pools run.

Counts derive from runtime.GOMAXPROCS(0), which tracks the container CPU
limit (runtime.NumCPU would report the host's cores and oversubscribe a
limited pod). Scan workers mix hashing with disk reads and get 1.5 per CPU;
watch workers are read-dominated and get 2 per CPU. Both pools are capped
so a large bare-metal host does not pile writers onto the single SQLite
connection.

Operators can pin both pools with one knob:

	env:
	- name: CATALOG_WORKERS
	  value: "4"

SCAN_WORKERS and WATCH_WORKERS in the startup config take precedence over
everything here; this package only supplies the defaults when those are
unset.
*/
package workers
