// Package profile provides optional runtime profiling for the minilisp
// interpreter.
//
// # Overview
//
// This package integrates [github.com/pkg/profile]. Profiling is optional and
// must be enabled at build time using the "pprof" build tag:
//
//	go build -tags pprof -o minilisp .
//
// When built without the tag, [Profiler.Start] returns a no-op controller and
// [Modes] is empty.
//
// # Available Profiling Modes
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Command-Line Usage
//
//	# Profile a deeply recursive program
//	minilisp --pprof-mode cpu run fib.lisp
//
//	# Analyze the result
//	go tool pprof -http=: ~/.cache/minilisp/pprof/cpu.pprof
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
