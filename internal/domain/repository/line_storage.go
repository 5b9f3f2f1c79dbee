package repository

import "context"

// LineStorage define el puerto de persistencia del inventario: un archivo de texto leído y escrito completo.
// ReadAllLines devuelve un error que cumple errors.Is(err, fs.ErrNotExist) si el archivo aún no existe.
type LineStorage interface {
	ReadAllLines(ctx context.Context) ([]string, error)
	WriteAllLines(ctx context.Context, lines []string) error
}

// LineEncoder lo implementan los almacenamientos cuyo juego de caracteres no cubre todo Unicode.
// CanEncode devuelve error si la línea no puede escribirse tal cual.
type LineEncoder interface {
	CanEncode(line string) error
}
