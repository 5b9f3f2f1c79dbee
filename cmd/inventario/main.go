// Command inventario opera el archivo de productos desde la terminal: las mismas operaciones
// que el formulario (agregar, buscar, verificar, entregar, retirar, editar, eliminar),
// el reporte PDF, la emisión de tokens y el servidor HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jhoicas/inventario-materiales/internal/application/dto"
	"github.com/jhoicas/inventario-materiales/internal/bootstrap"
	"github.com/jhoicas/inventario-materiales/internal/domain"
	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
	"github.com/jhoicas/inventario-materiales/pkg/config"
	"github.com/jhoicas/inventario-materiales/pkg/jwt"
	"github.com/jhoicas/inventario-materiales/pkg/logger"
)

const usage = `uso: inventario <comando> [flags]

comandos:
  list      [--type T]                                   buscar por tipo (por defecto todos)
  add       --name --type --manufacturer --quantity --price
  check     --name --type --manufacturer                 verificar existencia
  deliver   <pos> <cantidad>                             sumar cantidad
  withdraw  <pos> <cantidad>                             restar cantidad
  edit      <pos> [--name --type --manufacturer --quantity --price]
  delete    <pos> --yes
  report    --out archivo.pdf [--type T]
  token     --role admin|bodeguero|vendedor [--user U]
  serve                                                  servidor HTTP

flags comunes: --file, --encoding, --format, --log-level
`

var errUsage = errors.New("uso incorrecto")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// options flags de todos los subcomandos; cada uno registra solo los que usa.
type options struct {
	productType  string
	name         string
	manufacturer string
	quantity     int
	price        string
	out          string
	role         string
	user         string
	yes          bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.String("file", "", "archivo de productos (INVENTORY_FILE)")
	fs.String("encoding", "", "codificación del archivo: utf-8 | windows-1251 (INVENTORY_ENCODING)")
	fs.String("format", "", "formato del archivo: v1 | v2 (INVENTORY_FORMAT)")
	fs.String("log-level", "", "nivel de log (LOG_LEVEL)")

	var o options
	switch cmd {
	case "list":
		fs.StringVar(&o.productType, "type", entity.TypeAll, "tipo de material")
	case "add", "check", "edit":
		fs.StringVar(&o.name, "name", "", "nombre")
		fs.StringVar(&o.productType, "type", "", "tipo de material")
		fs.StringVar(&o.manufacturer, "manufacturer", "", "fabricante")
		if cmd != "check" {
			fs.IntVar(&o.quantity, "quantity", 0, "cantidad")
			fs.StringVar(&o.price, "price", "", "precio (acepta coma decimal)")
		}
	case "delete":
		fs.BoolVar(&o.yes, "yes", false, "confirmar la eliminación")
	case "report":
		fs.StringVar(&o.out, "out", "existencias.pdf", "archivo PDF de salida")
		fs.StringVar(&o.productType, "type", entity.TypeAll, "tipo de material")
	case "token":
		fs.StringVar(&o.role, "role", "", "rol: admin | bodeguero | vendedor")
		fs.StringVar(&o.user, "user", "operador", "identificador del usuario")
	case "deliver", "withdraw", "serve":
	default:
		fmt.Fprintf(stderr, "comando desconocido %q\n\n%s", cmd, usage)
		return errUsage
	}
	if err := fs.Parse(rest); err != nil {
		return errUsage
	}

	v := viper.New()
	for key, flag := range map[string]string{
		"INVENTORY_FILE":     "file",
		"INVENTORY_ENCODING": "encoding",
		"INVENTORY_FORMAT":   "format",
		"LOG_LEVEL":          "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return err
		}
	}
	cfg, err := config.LoadWith(v)
	if err != nil {
		return err
	}

	if cmd == "token" {
		return runToken(cfg, o, stdout)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: stderr})
	if cmd != "serve" {
		// La CLI solo muestra advertencias (por ejemplo, un guardado fallido).
		log = log.Level(zerolog.WarnLevel)
	}
	c, err := bootstrap.New(ctx, cfg, log, cmd == "serve")
	if err != nil {
		return err
	}
	uc := c.ProductUC

	switch cmd {
	case "list":
		printList(stdout, uc.SearchByType(ctx, o.productType))
		return nil

	case "add":
		price, err := parsePrice(o.price)
		if err != nil {
			return err
		}
		p, err := uc.AddProduct(ctx, dto.CreateProductRequest{
			Name: o.name, Type: o.productType, Manufacturer: o.manufacturer, Quantity: o.quantity, Price: price,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "agregado en posición %d: %s\n", p.Position, p.Name)
		return nil

	case "check":
		if uc.CheckAvailability(ctx, o.name, o.productType, o.manufacturer) {
			fmt.Fprintln(stdout, "disponible")
		} else {
			fmt.Fprintln(stdout, "no disponible")
		}
		return nil

	case "deliver", "withdraw":
		pos, amount, err := positionAndAmount(fs.Args())
		if err != nil {
			return err
		}
		adjust := uc.Deliver
		if cmd == "withdraw" {
			adjust = uc.Withdraw
		}
		p, err := adjust(ctx, pos, amount)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: cantidad %d\n", p.Name, p.Quantity)
		return nil

	case "edit":
		pos, err := position(fs.Args())
		if err != nil {
			return err
		}
		in, err := updateFromFlags(fs, o)
		if err != nil {
			return err
		}
		p, err := uc.Edit(ctx, pos, in)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "editado en posición %d: %s\n", p.Position, p.Name)
		return nil

	case "delete":
		pos, err := position(fs.Args())
		if err != nil {
			return err
		}
		if !o.yes {
			return fmt.Errorf("%w: confirme la eliminación con --yes", domain.ErrInvalidInput)
		}
		p, err := uc.Delete(ctx, pos)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "eliminado: %s\n", p.Name)
		return nil

	case "report":
		doc, err := c.ReportUC.Generate(ctx, o.productType)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.out, doc, 0o644); err != nil {
			return fmt.Errorf("escribir %s: %w", o.out, err)
		}
		fmt.Fprintf(stdout, "reporte escrito en %s (%d bytes)\n", o.out, len(doc))
		return nil

	case "serve":
		return serve(ctx, c, cfg, log)
	}
	return nil
}

func runToken(cfg *config.Config, o options, stdout io.Writer) error {
	switch o.role {
	case "admin", "bodeguero", "vendedor":
	default:
		return fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, o.role)
	}
	signer, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL())
	if err != nil {
		return err
	}
	tok, err := signer.Issue(o.user, o.role)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tok)
	return nil
}

func serve(ctx context.Context, c *bootstrap.Container, cfg *config.Config, log zerolog.Logger) error {
	app := c.FiberApp(cfg, log)
	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(cfg.HTTP.Addr()) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func printList(w io.Writer, list *dto.ProductListResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tНазва\tТип\tВиробник\tК-сть\tЦіна")
	for _, p := range list.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", p.Position, p.Name, p.Type, p.Manufacturer, p.Quantity, p.Price.String())
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "total: %d\n", list.Total)
}

func updateFromFlags(fs *pflag.FlagSet, o options) (dto.UpdateProductRequest, error) {
	var in dto.UpdateProductRequest
	if fs.Changed("name") {
		in.Name = &o.name
	}
	if fs.Changed("type") {
		in.Type = &o.productType
	}
	if fs.Changed("manufacturer") {
		in.Manufacturer = &o.manufacturer
	}
	if fs.Changed("quantity") {
		in.Quantity = &o.quantity
	}
	if fs.Changed("price") {
		price, err := parsePrice(o.price)
		if err != nil {
			return in, err
		}
		in.Price = &price
	}
	return in, nil
}

func parsePrice(s string) (price decimal.Decimal, err error) {
	price, err = domaininv.ParsePrice(s)
	if err != nil {
		return price, fmt.Errorf("%w: precio %q", domain.ErrInvalidInput, s)
	}
	return price, nil
}

func position(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: se espera <pos>", domain.ErrInvalidInput)
	}
	return atoi("posición", args[0])
}

func positionAndAmount(args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: se espera <pos> <cantidad>", domain.ErrInvalidInput)
	}
	pos, err := atoi("posición", args[0])
	if err != nil {
		return 0, 0, err
	}
	amount, err := atoi("cantidad", args[1])
	if err != nil {
		return 0, 0, err
	}
	return pos, amount, nil
}

func atoi(field, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q no es un entero", domain.ErrInvalidInput, field, s)
	}
	return n, nil
}
