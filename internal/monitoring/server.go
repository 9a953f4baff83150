package monitoring

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"tailor-backend/pkg/utils"
)

// Server exposes an operations endpoint on its own port: a JSON stats
// snapshot plus a websocket stream pushing the same snapshot periodically.
type Server struct {
	db   *pgxpool.Pool
	port int

	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	upgrader   websocket.Upgrader
}

// Stats is one dashboard snapshot.
type Stats struct {
	DatabaseStatus string  `json:"database_status"`
	DBResponseMs   int64   `json:"db_response_ms"`
	PoolTotal      int32   `json:"pool_total_conns"`
	PoolAcquired   int32   `json:"pool_acquired_conns"`
	PoolIdle       int32   `json:"pool_idle_conns"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	DiskPercent    float64 `json:"disk_percent"`
	Timestamp      string  `json:"timestamp"`
}

func NewServer(db *pgxpool.Pool, port int) *Server {
	return &Server{
		db:      db,
		port:    port,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start runs the monitoring HTTP server. It blocks, so callers run it in a
// goroutine.
func (s *Server) Start() {
	r := mux.NewRouter()
	r.HandleFunc("/stats", s.handleStats).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket)

	go s.broadcastLoop()

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("[Monitoring] Dashboard server running on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("[Monitoring] Server stopped: %v", err)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, s.collectStats())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Monitoring] WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMux.Lock()
	s.clients[conn] = true
	s.clientsMux.Unlock()

	// Reads are discarded; the socket exists only to push snapshots out.
	go func() {
		defer s.removeClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.clientsMux.Lock()
		if len(s.clients) == 0 {
			s.clientsMux.Unlock()
			continue
		}
		stats := s.collectStats()
		for conn := range s.clients {
			if err := conn.WriteJSON(stats); err != nil {
				conn.Close()
				delete(s.clients, conn)
			}
		}
		s.clientsMux.Unlock()
	}
}

func (s *Server) removeClient(conn *websocket.Conn) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	conn.Close()
	delete(s.clients, conn)
}

func (s *Server) collectStats() Stats {
	stats := Stats{Timestamp: time.Now().Format(time.RFC3339)}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "down"
	} else {
		stats.DatabaseStatus = "up"
	}
	stats.DBResponseMs = time.Since(start).Milliseconds()

	pool := s.db.Stat()
	stats.PoolTotal = pool.TotalConns()
	stats.PoolAcquired = pool.AcquiredConns()
	stats.PoolIdle = pool.IdleConns()

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	return stats
}
