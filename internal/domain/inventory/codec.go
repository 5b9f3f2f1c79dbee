package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/inventario-materiales/internal/domain"
	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Delimiter separa los campos de un registro en el archivo.
const Delimiter = "|"

const fieldCount = 5

// Versiones del formato de línea.
const (
	FormatPipe    = "v1" // name|type|manufacturer|quantity|price, sin escape
	FormatEscaped = "v2" // mismo orden; '\' escapa '\', '|', saltos de línea
)

// Codec convierte un producto a una línea de texto y viceversa.
type Codec interface {
	Format() string
	Encode(p entity.Product) (string, error)
	Decode(line string) (entity.Product, error)
}

// NewCodec resuelve el codec para la versión de formato configurada. Vacío equivale a v1.
func NewCodec(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatPipe:
		return PipeCodec{}, nil
	case FormatEscaped:
		return EscapedCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: formato de archivo desconocido %q", domain.ErrInvalidInput, format)
	}
}

// PipeCodec es el formato histórico del archivo products.txt. No escapa el delimitador:
// un campo con '|' o con salto de línea corrompería el archivo, por eso Encode lo rechaza.
type PipeCodec struct{}

// Format implementa Codec.
func (PipeCodec) Format() string { return FormatPipe }

// Encode une los cinco campos con '|'.
func (PipeCodec) Encode(p entity.Product) (string, error) {
	for _, f := range [...]struct{ name, value string }{
		{"name", p.Name},
		{"type", p.Type},
		{"manufacturer", p.Manufacturer},
	} {
		if strings.ContainsAny(f.value, Delimiter+"\r\n") {
			return "", fmt.Errorf("%w: %s contiene '|' o salto de línea", domain.ErrInvalidInput, f.name)
		}
	}
	return strings.Join([]string{
		p.Name, p.Type, p.Manufacturer,
		strconv.Itoa(p.Quantity),
		p.Price.String(),
	}, Delimiter), nil
}

// Decode separa la línea por '|' y exige exactamente cinco partes.
func (PipeCodec) Decode(line string) (entity.Product, error) {
	parts := strings.Split(line, Delimiter)
	return fromParts(parts)
}

// EscapedCodec mantiene el orden de campos y el delimitador pero escapa los caracteres especiales,
// de modo que cualquier texto sobrevive al ida y vuelta.
type EscapedCodec struct{}

// Format implementa Codec.
func (EscapedCodec) Format() string { return FormatEscaped }

var escaper = strings.NewReplacer(`\`, `\\`, `|`, `\|`, "\n", `\n`, "\r", `\r`)

// Encode escapa cada campo de texto y los une con '|'.
func (EscapedCodec) Encode(p entity.Product) (string, error) {
	return strings.Join([]string{
		escaper.Replace(p.Name),
		escaper.Replace(p.Type),
		escaper.Replace(p.Manufacturer),
		strconv.Itoa(p.Quantity),
		p.Price.String(),
	}, Delimiter), nil
}

// Decode separa por '|' no escapados y deshace el escape.
func (EscapedCodec) Decode(line string) (entity.Product, error) {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '\\':
			if i+1 >= len(line) {
				return entity.Product{}, fmt.Errorf("%w: escape incompleto al final de la línea", domain.ErrParse)
			}
			i++
			switch line[i] {
			case '\\', '|':
				cur.WriteByte(line[i])
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			default:
				return entity.Product{}, fmt.Errorf("%w: secuencia de escape desconocida \\%c", domain.ErrParse, line[i])
			}
		case '|':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return fromParts(parts)
}

func fromParts(parts []string) (entity.Product, error) {
	if len(parts) != fieldCount {
		return entity.Product{}, fmt.Errorf("%w: se esperaban %d campos, hay %d", domain.ErrParse, fieldCount, len(parts))
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil {
		return entity.Product{}, fmt.Errorf("%w: cantidad %q no es un entero", domain.ErrParse, parts[3])
	}
	if qty < 0 {
		return entity.Product{}, fmt.Errorf("%w: cantidad negativa %d", domain.ErrParse, qty)
	}
	price, err := ParsePrice(parts[4])
	if err != nil {
		return entity.Product{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return entity.Product{
		Name:         parts[0],
		Type:         parts[1],
		Manufacturer: parts[2],
		Quantity:     qty,
		Price:        price,
	}, nil
}

// ParsePrice interpreta un decimal en base 10 con '.' como separador. Acepta ',' cuando es el único
// separador, como lo escriben los equipos con configuración regional ucraniana.
// Rechaza exponentes y valores negativos.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	}
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, fmt.Errorf("precio %q no es un decimal", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio %q no es un decimal", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("precio negativo %s", s)
	}
	return d, nil
}
