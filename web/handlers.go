package web

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/spacescene/assets"
	"github.com/mogaika/spacescene/scene"
	"github.com/mogaika/spacescene/stage"
	"github.com/mogaika/spacescene/webutils"
)

const queryTimeout = 2 * time.Second

func (s *Server) HandlerWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	s.Hub.Serve(conn)
}

func (s *Server) HandlerJsonScene(w http.ResponseWriter, r *http.Request) {
	if snap := s.Hub.Snapshot(); snap != nil {
		webutils.WriteRawJson(w, snap)
	} else {
		webutils.WriteErrorStatus(w, http.StatusServiceUnavailable, errors.New("no frame rendered yet"))
	}
}

// query runs fn on frame loop so handlers never read scene mid frame
func (s *Server) query(r *http.Request, fn func(st *stage.Stage)) error {
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	return s.Driver.Do(ctx, fn)
}

func (s *Server) HandlerDumpScene(w http.ResponseWriter, r *http.Request) {
	var lines []string
	if err := s.query(r, func(st *stage.Stage) { lines = scene.Dump(st.Root) }); err != nil {
		webutils.WriteErrorStatus(w, http.StatusServiceUnavailable, errors.Wrap(err, "Failed to query scene"))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func (s *Server) HandlerDumpSceneGLB(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var exportErr error
	if err := s.query(r, func(st *stage.Stage) { exportErr = assets.ExportGLB(&buf, st.Root) }); err != nil {
		webutils.WriteErrorStatus(w, http.StatusServiceUnavailable, errors.Wrap(err, "Failed to query scene"))
		return
	}
	if exportErr != nil {
		webutils.WriteError(w, exportErr)
		return
	}
	webutils.WriteFile(w, &buf, "scene.glb")
}
