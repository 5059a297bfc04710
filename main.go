package main

import (
	"flag"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"geowell/config"
	"geowell/fluid"
	"geowell/server"
)

var configPath = flag.String("config", "conf/config.ini", "path of the ini configuration")

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load configuration: ", err)
	}
	if err := cfg.Log.Apply(); err != nil {
		log.Fatal("configure logging: ", err)
	}

	var oracle fluid.Oracle = fluid.NewLibrary()
	if cfg.Fluid.CacheSize > 0 {
		cache, err := fluid.NewCache(oracle, cfg.Fluid.CacheSize)
		if err != nil {
			log.Fatal("fluid cache: ", err)
		}
		oracle = cache
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.Server.ReadBufferSize,
		WriteBufferSize: cfg.Server.WriteBufferSize,
	}
	upgrader.CheckOrigin = func(r *http.Request) bool {
		return true
	}
	s := server.NewServer(cfg, upgrader, cfg.Store(), oracle)
	if err := s.Serve(); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}
