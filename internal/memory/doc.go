// Package memory sets the Go runtime memory limit for containerized
// deployments of the long-running commands (watch and serve).
//
// The whole index lives in memory between syncs, so a container that
// watches a large folder should give the runtime a soft limit below its
// cgroup limit. GOMAXPROCS follows cgroup CPU limits on its own; the memory
// limit does not.
//
// Environment variables:
//
//   - GOMEMLIMIT: standard Go variable, takes precedence when set.
//   - MEMORY_LIMIT: container limit in bytes, usually from the Kubernetes
//     Downward API.
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap, between 0
//     and 1. Defaults to 0.9.
//
// Example Downward API wiring:
//
//	env:
//	  - name: MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
package memory
