// Package sim provides the discrete-event factory simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - simulator.go: the cooperative event loop, processes, Timeout and Join
//   - resource.go: bounded worker pools with FIFO admission
//   - inventory.go: quality-ordered stock with greedy best-first removal
//   - factory.go: the run-scoped context and the stage orchestrator
//
// # Stages
//
// A run moves through four stages, premium work always before standard:
//   - supply.go: one delivery of exactly the planned raw material and coating
//   - manufacturing.go: raw unit + coating -> component, with breakage and retries
//   - assembly.go: builder pool claiming bills of materials into products
//   - acceptance.go: tester pool deciding accept/reject per product
//
// # Determinism
//
// Every random draw comes from one RNG owned by the Factory. Events at equal
// timestamps are ordered by type priority and then by scheduling order, so
// the same configuration and seed always reproduce the same RunStatistics.
//
// Sub-packages:
//   - sim/trace/: decision trace recording
//   - sim/report/: cross-run aggregation and metrics export
//   - sim/ledger/: per-run result storage for batch experiments
package sim
