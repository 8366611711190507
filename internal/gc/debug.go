package gc

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
)

// DebugSnapshot is the JSON body served by StartDebugHTTP's /gc endpoint.
type DebugSnapshot struct {
	GCStats
	HeapObjects       int    `json:"heapObjects"`
	RegisteredThreads int64  `json:"registeredThreads"`
	SuspendedThreads  int64  `json:"suspendedThreads"`
	WorldStopped      bool   `json:"worldStopped"`
	BarrierEnabled    bool   `json:"barrierEnabled"`
	BytesAllocated    uint64 `json:"bytesAllocated"`
}

// StartDebugHTTP starts a lightweight HTTP server exposing collector and
// heap diagnostics for c. It returns a shutdown function compatible with
// http.Server.Shutdown.
//
//	GET /gc -> JSON of DebugSnapshot
//
// Grounded on internal/runtime/debug_http.go's StartDebugHTTP(as, addr) in
// the teacher repo: same signature shape, same net/http+encoding/json
// style, same shutdown-func-returning convention.
func StartDebugHTTP(c *Collector, addr string) (func(ctx context.Context) error, error) {
	mux := http.NewServeMux()

	mux.HandleFunc("/gc", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		f := flags()
		snap := DebugSnapshot{
			GCStats:           c.Stats(),
			HeapObjects:       heap().len(),
			RegisteredThreads: f.registeredCount.Load(),
			SuspendedThreads:  f.suspendedCount.Load(),
			WorldStopped:      f.isWorldStopped(),
			BarrierEnabled:    f.isBarrierEnabled(),
			BytesAllocated:    bytesAllocated.Load(),
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(snap)
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	go func() { _ = srv.Serve(ln) }()

	return srv.Shutdown, nil
}
