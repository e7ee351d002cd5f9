// Package profile wraps [github.com/pkg/profile] so the arsla command can
// profile the interpreter without carrying the dependency in normal builds.
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o arsla .
//	./arsla --pprof-mode cpu -e '1 [D 100000 <] [1 +] W'
//	go tool pprof -http=: arsla ~/.cache/arsla/pprof/cpu.pprof
//
// Without the tag [Modes] is empty and [Profiler.Start] returns a no-op.
//
// The pprof build also imports [net/http/pprof], which registers its
// handlers on [net/http.DefaultServeMux]. The arsla command never starts an
// HTTP server, so the handlers are only reachable from programs that embed
// this package and serve the default mux themselves.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
