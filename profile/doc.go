// Package profile provides optional runtime profiling for pconf.
//
// Profiling is backed by [github.com/pkg/profile] and must be enabled at
// build time with the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Profiler.Start] returns a no-op stopper and [Modes]
// returns nothing.
//
// # Modes
//
// The following modes are supported when built with the pprof tag: allocs,
// block, clock, cpu, goroutine, heap, mem, mutex, thread and trace.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profiles are written to Path with names matching the mode (cpu.pprof,
// mem.pprof, ...) and can be inspected with go tool pprof:
//
//	go tool pprof -http=: /tmp/profiles/cpu.pprof
//
// Building with the tag also registers the [net/http/pprof] handlers on
// [net/http.DefaultServeMux].
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
