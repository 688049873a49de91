package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type (
	// IngestServer accepts cowrie JSON payloads over http and stores each
	// one verbatim in its own file for a later import
	IngestServer struct {
		Address  string // Default 127.0.0.1:8000
		route    string
		dir      string
		maxBody  int64
		log      *log.Logger
		now      func() time.Time
		registry *prometheus.Registry
		payloads *prometheus.CounterVec
		bytes    prometheus.Counter
	}

	// ingestResponse is the body returned for a stored payload
	ingestResponse struct {
		Status string `json:"status"`
		File   string `json:"file,omitempty"`
		Error  string `json:"error,omitempty"`
	}
)

// New creates a new ingest server from the Ingest config section
func New(res *resources.Resources) *IngestServer {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &IngestServer{
		Address: res.Config.S.Ingest.ListenAddress,
		route:   res.Config.S.Ingest.Route,
		dir:     res.Config.R.Paths.IngestDir,
		maxBody: res.Config.S.Ingest.MaxBodyBytes,
		log:     res.Log,
		now:     time.Now,

		registry: reg,
		payloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phantomnet_ingest_payloads_total",
			Help: "Payloads received by the ingest endpoint, by outcome",
		}, []string{"status"}),
		bytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "phantomnet_ingest_bytes_total",
			Help: "Bytes of payload stored by the ingest endpoint",
		}),
	}
}

// Handler returns the routes served by the ingest server
func (s *IngestServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.route, s.ingestRoute)
	mux.HandleFunc("/healthcheck", s.healthcheckRoute)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// Start listens on Address until ctx is cancelled, then shuts down
// gracefully
func (s *IngestServer) Start(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("could not create %s: %w", s.dir, err)
	}

	srv := &http.Server{
		Addr:              s.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.log.WithFields(log.Fields{
			"address": s.Address,
			"route":   s.route,
			"dir":     s.dir,
		}).Info("Starting ingest listener")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("Ingest listener stopped")
	return nil
}

// ingestRoute stores one JSON payload per request
func (s *IngestServer) ingestRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.respond(w, http.StatusMethodNotAllowed, ingestResponse{Status: "error", Error: "method not allowed"})
		s.payloads.WithLabelValues("rejected").Inc()
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	defer r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		status := http.StatusBadRequest
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"error":  err.Error(),
		}).Warn("Could not read ingest payload")
		s.respond(w, status, ingestResponse{Status: "error", Error: "could not read body"})
		s.payloads.WithLabelValues("rejected").Inc()
		return
	}

	if !jsoniter.ConfigCompatibleWithStandardLibrary.Valid(body) {
		s.log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"bytes":  len(body),
		}).Warn("Rejected invalid JSON payload")
		s.respond(w, http.StatusBadRequest, ingestResponse{Status: "error", Error: "body is not valid JSON"})
		s.payloads.WithLabelValues("invalid").Inc()
		return
	}

	path, err := s.writePayload(body)
	if err != nil {
		s.log.WithFields(log.Fields{
			"remote": r.RemoteAddr,
			"error":  err.Error(),
		}).Error("Could not store ingest payload")
		s.respond(w, http.StatusInternalServerError, ingestResponse{Status: "error", Error: "could not store payload"})
		s.payloads.WithLabelValues("failed").Inc()
		return
	}

	s.log.WithFields(log.Fields{
		"remote": r.RemoteAddr,
		"file":   path,
		"bytes":  len(body),
	}).Info("Stored ingest payload")
	s.payloads.WithLabelValues("ok").Inc()
	s.bytes.Add(float64(len(body)))
	s.respond(w, http.StatusOK, ingestResponse{Status: "ok", File: path})
}

func (s *IngestServer) healthcheckRoute(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, ingestResponse{Status: "ok"})
}

// payloadName names a payload after its UTC arrival time to the
// microsecond plus a random suffix
func (s *IngestServer) payloadName() string {
	now := s.now().UTC()
	return fmt.Sprintf("%s-%06d-%s.json",
		now.Format("20060102-150405"),
		now.Nanosecond()/1000,
		uuid.New().String()[:8],
	)
}

// writePayload stores body in a file which did not exist before
func (s *IngestServer) writePayload(body []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, s.payloadName())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	return path, f.Close()
}

func (s *IngestServer) respond(w http.ResponseWriter, status int, body ingestResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w).Encode(body); err != nil {
		s.log.WithFields(log.Fields{"error": err.Error()}).Debug("Could not write response")
	}
}
