package endpoints

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doodlesbykumbi/blog-in-go/pkg/config"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server"
	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/blog-in-go/pkg/service"
)

// Version is the reported API version. Overridden at build time with
// -ldflags "-X .../endpoints.Version=...".
var Version = "1.0.0"

// SystemInfo is the body of GET /
type SystemInfo struct {
	Name             string    `json:"name"`
	Version          string    `json:"version"`
	Framework        string    `json:"framework"`
	GoVersion        string    `json:"goVersion"`
	Database         string    `json:"database"`
	UploadLimit      string    `json:"uploadLimit"`
	SupportFileTypes []string  `json:"supportFileTypes"`
	StartTime        time.Time `json:"startTime"`
}

// MemoryUsage reports process memory in megabytes
type MemoryUsage struct {
	RSS      string `json:"rss"`
	HeapUsed string `json:"heapUsed"`
}

// HealthReport is the body of GET /health
type HealthReport struct {
	Status      string      `json:"status"`
	Database    string      `json:"database"`
	UploadDir   string      `json:"uploadDir"`
	MemoryUsage MemoryUsage `json:"memoryUsage"`
	Timestamp   int64       `json:"timestamp"`
}

// RegisterAppEndpoints registers the system info, health and metrics
// endpoints. None of them require authentication.
func RegisterAppEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleSystemInfo(s.Config, s.StartTime)).Methods("GET")
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore, s.FilesStore)).Methods("GET")
	s.Router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

func handleSystemInfo(cfg *config.Config, started time.Time) http.HandlerFunc {
	info := SystemInfo{
		Name:             "Blog backend",
		Version:          Version,
		Framework:        "gorilla/mux",
		GoVersion:        runtime.Version(),
		Database:         "PostgreSQL",
		UploadLimit:      cfg.UploadLimitLabel(),
		SupportFileTypes: service.AllowedTypes,
		StartTime:        started.UTC(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, "system info retrieved", info)
	}
}

func handleHealth(healthStore store.HealthStore, filesStore store.FilesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := HealthReport{
			Status:    "healthy",
			Database:  "connected",
			UploadDir: "exists",
			Timestamp: time.Now().UnixMilli(),
		}

		if err := healthStore.CheckConnectivity(r.Context()); err != nil {
			report.Database = "disconnected"
			report.Status = "unhealthy"
		}
		if !filesStore.Available() {
			report.UploadDir = "not exists"
			report.Status = "unhealthy"
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		report.MemoryUsage = MemoryUsage{
			RSS:      megabytes(mem.Sys),
			HeapUsed: megabytes(mem.HeapAlloc),
		}

		message := "blog backend is running"
		if report.Status != "healthy" {
			message = "blog backend is degraded"
		}
		respondWithJSON(w, http.StatusOK, message, report)
	}
}

func megabytes(n uint64) string {
	return fmt.Sprintf("%.2fMB", float64(n)/1024/1024)
}
