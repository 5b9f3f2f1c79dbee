// Package textfile implementa el puerto repository.LineStorage sobre un archivo de texto plano.
// Cada escritura reemplaza el archivo completo: sin bloqueo, sin reintentos y sin archivo temporal,
// de modo que una caída a mitad de escritura puede dejarlo truncado.
package textfile

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/jhoicas/inventario-materiales/internal/domain"
	"github.com/jhoicas/inventario-materiales/internal/domain/repository"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	_ repository.LineStorage = (*Gateway)(nil)
	_ repository.LineEncoder = (*Gateway)(nil)
)

// Codificaciones soportadas.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1251 = "windows-1251"
)

const utf8BOM = "\uFEFF"

// Gateway lee y escribe el archivo de productos.
type Gateway struct {
	path string
	enc  encoding.Encoding // nil = UTF-8
}

// NewGateway construye el adaptador. encodingName vacío equivale a UTF-8.
func NewGateway(path, encodingName string) (*Gateway, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: ruta del archivo vacía", domain.ErrInvalidInput)
	}
	g := &Gateway{path: path}
	switch strings.ToLower(strings.TrimSpace(encodingName)) {
	case "", EncodingUTF8, "utf8":
	case EncodingWindows1251, "cp1251":
		g.enc = charmap.Windows1251
	default:
		return nil, fmt.Errorf("%w: codificación desconocida %q", domain.ErrInvalidInput, encodingName)
	}
	return g, nil
}

// Path devuelve la ruta del archivo.
func (g *Gateway) Path() string { return g.path }

// CanEncode informa domain.ErrInvalidInput si la línea tiene caracteres fuera de la codificación del archivo.
func (g *Gateway) CanEncode(line string) error {
	if g.enc == nil {
		return nil
	}
	if _, err := g.enc.NewEncoder().String(line); err != nil {
		return fmt.Errorf("%w: %q no es representable en %s", domain.ErrInvalidInput, line, EncodingWindows1251)
	}
	return nil
}

// ReadAllLines lee todas las líneas del archivo. Acepta finales CRLF y elimina un BOM UTF-8 inicial.
// Un salto de línea final no genera una línea vacía.
func (g *Gateway) ReadAllLines(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrStorage, g.path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if g.enc != nil {
		r = transform.NewReader(f, g.enc.NewDecoder())
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: leer %s: %v", domain.ErrStorage, g.path, err)
	}
	return lines, nil
}

// WriteAllLines sobrescribe el archivo con una línea por elemento, cada una terminada en '\n'.
func (g *Gateway) WriteAllLines(ctx context.Context, lines []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	data := buf.Bytes()
	if g.enc != nil {
		encoded, _, err := transform.Bytes(g.enc.NewEncoder(), data)
		if err != nil {
			return fmt.Errorf("%w: codificar %s: %v", domain.ErrStorage, g.path, err)
		}
		data = encoded
	}
	if err := os.WriteFile(g.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: escribir %s: %v", domain.ErrStorage, g.path, err)
	}
	return nil
}
