package nextbus

import (
	"net/http"

	"github.com/theoremus-urban-solutions/nextbus/gtfs"
)

type healthResponse struct {
	Status   string     `json:"status"`
	Schedule gtfs.Stats `json:"schedule"`
	FeedURL  string     `json:"feed_url"`
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", FeedURL: srv.feedURL}
	if st := srv.svc.Store(); st != nil {
		resp.Schedule = st.Stats()
	} else {
		resp.Status = "loading"
	}
	srv.respond(w, r, resp)
}
