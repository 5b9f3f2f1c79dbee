package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("producto no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrOutOfRange        = errors.New("posición fuera de rango")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrParse             = errors.New("registro mal formado")
	ErrStorage           = errors.New("error de almacenamiento")
)
