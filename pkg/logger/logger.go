// Package logger configura zerolog para el servidor y la CLI.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env   string    // "development" = consola legible; cualquier otro = JSON
	Level string    // nombre de nivel de zerolog; vacío o desconocido = info
	Out   io.Writer // nil = os.Stdout; la CLI usa os.Stderr para no mezclar logs con la salida
}

// New devuelve el logger raíz y lo instala como log.Logger para las librerías que usan el global.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Env, "development") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	l := zerolog.New(out).Level(Level(cfg.Level)).With().Timestamp().Logger()
	log.Logger = l
	return l
}

// Level traduce el nombre del nivel; vacío o desconocido = info.
func Level(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Component deriva un logger que etiqueta cada entrada con component=name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
