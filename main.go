package main

import (
	"os"

	"github.com/wwpdb/onedep-io/io_server"
	logs "github.com/wwpdb/onedep-io/logs"
	"github.com/wwpdb/onedep-io/module_store"
	"github.com/wwpdb/onedep-io/server"
	server_handlers "github.com/wwpdb/onedep-io/server/handlers"
)

func main() {
	server_handlers.ServerName = "onedep-io"
	logs.LogInit(server_handlers.ServerName)

	port := os.Getenv("ONEDEPIO_PORT")
	if port == "" {
		port = "8080"
	}

	store, err := io_server.StartUp()
	if err != nil {
		logs.Logger.Error(err.Error())
		os.Exit(1)
	}
	sh := &module_store.StoreHolder{Store: store}

	serverRouter, _, err := server.Init()
	if err != nil {
		logs.Logger.Error(err.Error())
		os.Exit(1)
	}
	io_server.AddIoRoutes(serverRouter, sh)
	server.Launch(serverRouter, port)
}
