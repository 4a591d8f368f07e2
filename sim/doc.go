// Package sim provides the discrete-event simulation kernel and statistics
// engine for a three-stage production line (moulding → inspection → packaging).
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - job.go: Job lifecycle record and the job arena
//   - event.go: Event types that drive the simulation (Arrival, stage finishes)
//   - simulator.go: The event loop, stage routing and WIP accounting
//   - metrics.go: The run statistics calculator
//   - replication.go: Replications, aggregation and confidence intervals
//
// # Determinism
//
// All randomness flows from one RandomStream (a seeded LCG) per replication.
// Events with equal timestamps run in scheduling order. Replication k of a
// run uses seed Seed+k, so any replication can be reproduced on its own.
//
// # Entry Points
//
//   - Run: config → aggregated SimulationStats
//   - RunReplications / RunSingle: per-replication stats
//   - Sweep: sensitivity of cost and wait to one stage's server count
//
// Sub-packages:
//   - sim/trace/: optional per-event trace recording
//   - sim/history/: SQLite store of finished run reports
package sim
