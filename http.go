package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"descriptive_stats/input"
	"descriptive_stats/report"
)

const maxBodyBytes = 10 << 20

type server struct {
	plot report.PlotKind
}

func newRouter(plot report.PlotKind) http.Handler {
	s := &server{plot: plot}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok")
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
	case input.IsUserError(err):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("analysis failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": userMessage(err)})
}

func (s *server) readInput(r *http.Request, body io.Reader) (input.Input, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		return input.CSV(body, r.URL.Query().Get("column"))
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return input.Input{}, err
	}
	return input.Manual(string(raw))
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	kind := s.plot
	if q := r.URL.Query().Get("plot"); q != "" {
		k, err := report.ParsePlotKind(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		kind = k
	}

	in, err := s.readInput(r, body)
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := analyze(in)
	if err != nil {
		writeError(w, err)
		return
	}

	logger := zap.L().With(zap.String("source", doc.Source), zap.Int("count", doc.Count))

	if strings.Contains(r.Header.Get("Accept"), "image/png") {
		var buf bytes.Buffer
		if err := report.RenderPNG(&buf, in.Sample, doc.Result, kind); err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(buf.Bytes())
		logger.Debug("chart served", zap.String("plot", string(kind)))
		return
	}

	writeJSON(w, http.StatusOK, doc)
	logger.Debug("report served")
}

// serve runs the HTTP service until ctx is cancelled.
func serve(ctx context.Context, addr string, plot report.PlotKind) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(plot),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http service listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
