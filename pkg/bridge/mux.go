package bridge

import (
	"net/http"
)

func newMux(b *Bridge) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", b.handleWS)
	return mux
}

func httpServerFor(mux *http.ServeMux) *http.Server {
	return &http.Server{Handler: mux}
}
