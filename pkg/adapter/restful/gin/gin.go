// Package gin wraps the gin-gonic engine construction, so the config
// and cmd packages do not need to import gin-gonic directly.
package gin

import (
	"log/slog"

	"github.com/FabienMht/ginslog"
	"github.com/gin-gonic/gin"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// SlogLogger returns a middleware which logs every handled request
// through the default slog logger, as installed by log.Setup.
func SlogLogger() HandlerFunc {
	return ginslog.New(slog.Default())
}
