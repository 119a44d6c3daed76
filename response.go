package nextbus

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/theoremus-urban-solutions/nextbus/formatter"
	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
)

func (srv *Server) writeEnvelope(w http.ResponseWriter, r *http.Request, status int, env formatter.Envelope) {
	b, err := srv.rb.BuildJSON(env)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "encode response", err, slog.String("path", r.URL.Path))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (srv *Server) respond(w http.ResponseWriter, r *http.Request, data any) {
	srv.writeEnvelope(w, r, http.StatusOK, formatter.Wrap(data))
}

func (srv *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	srv.writeEnvelope(w, r, status, formatter.WrapError(status, msg))
}

// failQuery maps parameter errors to 400 and anything else to 500.
func (srv *Server) failQuery(w http.ResponseWriter, r *http.Request, err error) {
	var qe *QueryError
	if errors.As(err, &qe) {
		srv.fail(w, r, http.StatusBadRequest, qe.Error())
		return
	}
	logging.LogError(logging.FromContext(r.Context()), "request failed", err, slog.String("path", r.URL.Path))
	srv.fail(w, r, http.StatusInternalServerError, "internal error")
}

func (srv *Server) notFound(w http.ResponseWriter, r *http.Request, what string) {
	srv.fail(w, r, http.StatusNotFound, what+" not found")
}
