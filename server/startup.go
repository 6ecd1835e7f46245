package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	logs "github.com/wwpdb/onedep-io/logs"
	handlers "github.com/wwpdb/onedep-io/server/handlers"
)

type Server struct{}

func Launch(serverRouter *mux.Router, port string) {
	// Allow cors
	handlers.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	corsObj := handlers.MakeCorsObject()
	r := otelhttp.NewHandler(corsObj.Handler(requestIdMiddleWare(otelMiddleWare(serverRouter))), handlers.ServerName)
	http.Handle("/", r)
	logs.Logger.Info(fmt.Sprint("Starting server ", handlers.ServerName, " on ", port))
	err := http.ListenAndServe(":"+port, nil)
	logs.Logger.Error(fmt.Sprint("printing error of ListenAndServe = ", err.Error()))
}

func Init() (*mux.Router, *Server, error) {
	s := new(Server)
	serverRouter := s.GetRouter()
	return serverRouter, s, nil
}
