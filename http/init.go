package http

import (
	"flag"

	"github.com/esimov/ascii-swarm/websocket"
)

var ws = websocket.DefaultParams()

// Register binds the server parameters to command line flags on fs.
func Register(fs *flag.FlagSet) {
	fs.StringVar(&ws.Address, "a", ws.Address, "address to serve(host:port)")
	fs.StringVar(&ws.Prefix, "p", ws.Prefix, "prefix path under")
	fs.StringVar(&ws.Root, "r", ws.Root, "root path to serve")
}

func GetParams() websocket.HttpParams {
	return ws
}
