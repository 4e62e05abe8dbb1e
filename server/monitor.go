package server

import (
	"fmt"
	"io"
	"net/http"
	"runtime"
	"runtime/pprof"
)

// runtimeMonitor writes runtime information about the server.
type runtimeMonitor struct {
	hasTLS bool
}

// ServeHTTP writes memory statistics and goroutine stack traces to the response.
func (m runtimeMonitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	w.Header().Set(HeaderCacheControl, "no-store")
	ms := new(runtime.MemStats)
	runtime.ReadMemStats(ms)
	p := pprof.Lookup("goroutine")
	writeMemoryStats(w, ms)
	fmt.Fprintln(w)
	writeGoroutineExpectations(w, m.hasTLS)
	fmt.Fprintln(w)
	writeGoroutineStackTraces(w, p)
}

// writeMemoryStats writes the memory runtime statistics of the server.
func writeMemoryStats(w io.Writer, m *runtime.MemStats) {
	fmt.Fprintln(w, "--- Memory Stats ---")
	fmt.Fprintln(w, "Alloc (bytes on heap)", m.Alloc)
	fmt.Fprintln(w, "TotalAlloc (total heap size)", m.TotalAlloc)
	fmt.Fprintln(w, "Sys (bytes used to run server)", m.Sys)
	fmt.Fprintln(w, "Live object count (Mallocs - Frees)", m.Mallocs-m.Frees)
	fmt.Fprintln(w, "Goroutines", runtime.NumGoroutine())
}

// writeGoroutineExpectations writes a message about the expected goroutines.
func writeGoroutineExpectations(w io.Writer, hasTLS bool) {
	fmt.Fprintln(w, "--- Goroutine Expectations ---")
	fmt.Fprintln(w, "These goroutines are expected on an idling server:")
	fmt.Fprintln(w, "* a goroutine to run the main procedure")
	fmt.Fprintln(w, "* a goroutine listening for interrupt/termination signals so the server can stop gracefully")
	if hasTLS {
		fmt.Fprintln(w, "* a goroutine to run the https (tls) server")
	} else {
		fmt.Fprintln(w, "* a goroutine to run the http server")
	}
	fmt.Fprintln(w, "* two goroutines to run the lobby: one for sockets, one for puzzle runner replies")
	fmt.Fprintln(w, "* a goroutine to run the puzzle runner")
	fmt.Fprintln(w, "* a goroutine to write profiling information about goroutines")
	fmt.Fprintln(w, "Database drivers may add goroutines to manage their connections.")
	fmt.Fprintln(w, "Each player in the lobby should have two (2) goroutines to read and write websocket messages.")
	fmt.Fprintln(w, "Each puzzle runs on a single (1) goroutine.")
}

// writeGoroutineStackTraces writes the goroutine runtime profile's stack traces.
func writeGoroutineStackTraces(w io.Writer, p *pprof.Profile) {
	fmt.Fprintln(w, "--- Goroutine Stack Traces ---")
	p.WriteTo(w, 1)
}
