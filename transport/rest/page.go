package rest

import (
	_ "embed"
	"net/http"
)

//go:embed web/index.html
var indexPage []byte

func (that *Server) handlePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(indexPage); err != nil {
		that.logger.Error("failed to write page", "error", err)
	}
}
