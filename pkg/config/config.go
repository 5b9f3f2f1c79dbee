package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Inventory InventoryConfig
	Report    ReportConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// InventoryConfig archivo de productos.
type InventoryConfig struct {
	File     string // ruta del archivo (products.txt)
	Encoding string // utf-8 | windows-1251
	Format   string // v1 (Name|Type|Manufacturer|Quantity|Price) | v2 (con escape)
}

// ReportConfig reporte PDF de existencias.
type ReportConfig struct {
	FontFile string // TTF con cirílico; vacío = Go Regular/Bold incrustadas
}

// JWTConfig configuración de JWT.
// Secret vacío desactiva la autenticación de las rutas que modifican el inventario.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// TTL vigencia de los tokens emitidos.
func (c JWTConfig) TTL() time.Duration { return time.Duration(c.Expiration) * time.Minute }

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, INVENTORY_FILE, HTTP_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith lee la configuración sobre una instancia de Viper ya preparada
// (por ejemplo con flags de línea de comandos enlazados con BindPFlag).
func LoadWith(v *viper.Viper) (*Config, error) {
	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.MergeInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-materiales"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Inventory: InventoryConfig{
			File:     getString(v, "INVENTORY_FILE", "products.txt"),
			Encoding: getString(v, "INVENTORY_ENCODING", "utf-8"),
			Format:   getString(v, "INVENTORY_FORMAT", "v1"),
		},
		Report: ReportConfig{
			FontFile: getString(v, "REPORT_FONT_FILE", ""),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "inventario-materiales"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return nil, fmt.Errorf("config: HTTP_PORT inválido: %d", cfg.HTTP.Port)
	}
	if cfg.JWT.Expiration <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser > 0")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return -1
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
