// Package web serves a read only preview of an encoded scene: json views of
// the graph and downloads of every output format.
package web

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
)

type Server struct {
	file *scene.File
	// name is base name used for downloaded files
	name string
}

func NewServer(f *scene.File, name string) *Server {
	if name == "" {
		name = "scene"
	}
	return &Server{file: f, name: name}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/scene", s.HandlerScene).Methods(http.MethodGet)
	r.HandleFunc("/json/nodes", s.HandlerNodes).Methods(http.MethodGet)
	r.HandleFunc("/json/nodes/{id}", s.HandlerNode).Methods(http.MethodGet)
	r.HandleFunc("/json/materials", s.HandlerMaterials).Methods(http.MethodGet)
	r.HandleFunc("/json/animations", s.HandlerAnimations).Methods(http.MethodGet)
	r.HandleFunc("/download/{kind}", s.HandlerDownload).Methods(http.MethodGet)
	return r
}

// Handler wraps router with panic recovery and access log
func (s *Server) Handler() http.Handler {
	accessLog := zap.NewStdLog(logger.Log).Writer()
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	return handlers.LoggingHandler(accessLog, h)
}

func StartServer(addr string, f *scene.File, name string) error {
	s := NewServer(f, name)
	logger.Info("[web] Starting server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler())
}
