package web

import (
	"context"
	"log"
	"net/http"
	"os"
	"path"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/spacescene/loop"
	"github.com/mogaika/spacescene/viewer"
)

type Server struct {
	Driver *loop.Driver
	Hub    *viewer.Hub

	upgrader websocket.Upgrader
}

func NewServer(driver *loop.Driver, hub *viewer.Hub) *Server {
	return &Server{
		Driver: driver,
		Hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
	}
}

func (s *Server) Router(webPath string) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.HandlerWebsocket)
	r.HandleFunc("/json/scene", s.HandlerJsonScene).Methods(http.MethodGet)
	r.HandleFunc("/dump/scene", s.HandlerDumpScene).Methods(http.MethodGet)
	r.HandleFunc("/dump/scene.glb", s.HandlerDumpSceneGLB).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))

	return handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(r))
}

// StartServer blocks until ctx is done or server fails
func (s *Server) StartServer(ctx context.Context, addr string, webPath string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router(webPath)}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Printf("[web] Starting server %v", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
