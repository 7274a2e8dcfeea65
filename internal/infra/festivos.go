package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// festivosFile is the on-disk format of FESTIVOS_FILE:
//
//	festivos:
//	  - fecha: "2026-01-01"
//	    nombre: "Año Nuevo"
type festivosFile struct {
	Festivos []Festivo `yaml:"festivos"`
}

// Festivo is a public holiday.
type Festivo struct {
	Fecha  string `yaml:"fecha" json:"fecha"`
	Nombre string `yaml:"nombre" json:"nombre"`
}

// Festivos is the holiday calendar. Safe for concurrent use.
type Festivos struct {
	mu    sync.RWMutex
	porID map[string]string
}

// NewFestivos builds a calendar from an explicit list.
func NewFestivos(list ...Festivo) *Festivos {
	f := &Festivos{porID: make(map[string]string, len(list))}
	for _, x := range list {
		f.porID[x.Fecha] = x.Nombre
	}
	return f
}

// LoadFestivos reads the YAML calendar at path. A missing file yields an
// empty calendar; a malformed one is an error.
func LoadFestivos(path string) (*Festivos, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("festivos: fichero no encontrado, calendario vacio")
		return NewFestivos(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("festivos: leer %s: %w", path, err)
	}

	var doc festivosFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("festivos: parsear %s: %w", path, err)
	}
	for _, x := range doc.Festivos {
		if _, err := time.Parse("2006-01-02", x.Fecha); err != nil {
			return nil, fmt.Errorf("festivos: fecha %q invalida", x.Fecha)
		}
	}
	log.Info().Int("count", len(doc.Festivos)).Str("path", path).Msg("festivos: calendario cargado")
	return NewFestivos(doc.Festivos...), nil
}

// Es reports whether day is a holiday and returns its name.
func (f *Festivos) Es(day time.Time) (string, bool) {
	if f == nil {
		return "", false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	nombre, ok := f.porID[day.Format("2006-01-02")]
	return nombre, ok
}

// EnRango returns the holidays between desde and hasta inclusive, sorted.
func (f *Festivos) EnRango(desde, hasta string) []Festivo {
	if f == nil {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []Festivo
	for fecha, nombre := range f.porID {
		if fecha >= desde && fecha <= hasta {
			out = append(out, Festivo{Fecha: fecha, Nombre: nombre})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out
}
