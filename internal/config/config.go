package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-ini/ini"
)

// Config envuelve el archivo INI opcional. Nunca se escribe a disco.
type Config struct {
	ini *ini.File
}

// OutputConfig es el formato de salida: text o json.
type OutputConfig struct {
	Format string
}

// VerboseConfig es el nivel de detalle del log (0=avisos, 1=info, 2=debug, 3=trace).
type VerboseConfig struct {
	Level int
}

// ScanConfig controla qué entra en el índice.
type ScanConfig struct {
	MinSize  int64
	Excludes []string
}

// PerformanceConfig controla el paralelismo del agrupado.
type PerformanceConfig struct {
	Workers int
}

type AllConfig struct {
	Output      *OutputConfig
	Verbose     *VerboseConfig
	Scan        *ScanConfig
	Performance *PerformanceConfig
}

// Load lee la configuración de path. Con path vacío devuelve los valores por defecto.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{ini: ini.Empty()}, nil
	}
	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return &Config{ini: f}, nil
}

// LoadBytes lee la configuración desde memoria.
func LoadBytes(data []byte) (*Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &Config{ini: f}, nil
}

func (c *Config) GetOutputConfig() *OutputConfig {
	out := &OutputConfig{Format: "text"}
	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("format") {
			out.Format = strings.ToLower(section.Key("format").String())
		}
	}
	return out
}

func (c *Config) GetVerboseConfig() *VerboseConfig {
	v := &VerboseConfig{}
	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				v.Level = level
			}
		}
	}
	return v
}

func (c *Config) GetScanConfig() *ScanConfig {
	s := &ScanConfig{}
	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("min_size") {
			if minSize, err := section.Key("min_size").Int64(); err == nil {
				s.MinSize = minSize
			}
		}
		if section.HasKey("exclude") {
			for _, name := range section.Key("exclude").Strings(",") {
				if name != "" {
					s.Excludes = append(s.Excludes, name)
				}
			}
		}
	}
	return s
}

func (c *Config) GetPerformanceConfig() *PerformanceConfig {
	p := &PerformanceConfig{Workers: 1}
	if c.ini.HasSection("performance") {
		section := c.ini.Section("performance")
		if section.HasKey("workers") {
			if workers, err := section.Key("workers").Int(); err == nil {
				p.Workers = workers
			}
		}
	}
	return p
}

func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Output:      c.GetOutputConfig(),
		Verbose:     c.GetVerboseConfig(),
		Scan:        c.GetScanConfig(),
		Performance: c.GetPerformanceConfig(),
	}
}

// ApplyOverrides aplica overrides "clave:valor" de la línea de comandos.
// Claves: format, level, min_size, exclude, workers.
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "format":
			c.ini.Section("output").Key("format").SetValue(value)
		case "level":
			c.ini.Section("verbose").Key("level").SetValue(value)
		case "min_size":
			c.ini.Section("scan").Key("min_size").SetValue(value)
		case "exclude":
			c.ini.Section("scan").Key("exclude").SetValue(value)
		case "workers":
			c.ini.Section("performance").Key("workers").SetValue(value)
		default:
			return fmt.Errorf("unsupported override key '%s' (supported: format, level, min_size, exclude, workers)", key)
		}
	}
	return nil
}

// numericKeys son las claves que deben ser enteros.
var numericKeys = []struct{ section, key string }{
	{"verbose", "level"},
	{"scan", "min_size"},
	{"performance", "workers"},
}

// Validate comprueba todos los valores efectivos. Un valor numérico que no
// se puede interpretar es un error, no un valor por defecto.
func (c *Config) Validate() error {
	for _, nk := range numericKeys {
		if !c.ini.HasSection(nk.section) {
			continue
		}
		section := c.ini.Section(nk.section)
		if !section.HasKey(nk.key) {
			continue
		}
		if _, err := section.Key(nk.key).Int64(); err != nil {
			return fmt.Errorf("invalid %s.%s value '%s': expected an integer", nk.section, nk.key, section.Key(nk.key).String())
		}
	}

	all := c.GetAllConfig()
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateVerboseLevel(all.Verbose.Level); err != nil {
		return err
	}
	if err := ValidateMinSize(all.Scan.MinSize); err != nil {
		return err
	}
	return ValidateWorkers(all.Performance.Workers)
}

func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json)", format)
	}
}

func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}

func ValidateMinSize(size int64) error {
	if size < 0 {
		return fmt.Errorf("min size must not be negative, got: %s", strconv.FormatInt(size, 10))
	}
	return nil
}

// MaxWorkers limita el paralelismo: cada worker puede retener dos buffers
// de la última pasada (2 × 256 MiB) al comparar archivos grandes.
const MaxWorkers = 16

func ValidateWorkers(workers int) error {
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1, got: %d", workers)
	}
	if workers > MaxWorkers {
		return fmt.Errorf("workers should not exceed %d, got: %d", MaxWorkers, workers)
	}
	return nil
}
