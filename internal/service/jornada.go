package service

import (
	"sort"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"

	"github.com/shopspring/decimal"
)

// jornadaMaxima bounds how long an entrada without salida is considered an
// open jornada. Past it the jornada counts as abandoned.
const jornadaMaxima = 16 * time.Hour

const (
	EstadoFuera      = "fuera"
	EstadoTrabajando = "trabajando"
	EstadoEnPausa    = "en_pausa"
)

// EstadoDesde derives the clock state from the user's latest registro.
func EstadoDesde(ultimo *model.Registro, now time.Time) string {
	if ultimo == nil || now.Sub(ultimo.FechaHora) > jornadaMaxima {
		return EstadoFuera
	}
	switch ultimo.Tipo {
	case model.TipoEntrada, model.TipoPausaFin:
		return EstadoTrabajando
	case model.TipoPausaInicio:
		return EstadoEnPausa
	default:
		return EstadoFuera
	}
}

// Jornada is one entrada..salida cycle, dated by its entrada.
type Jornada struct {
	Fecha      string
	Entrada    time.Time
	Salida     *time.Time
	Trabajado  time.Duration
	Pausa      time.Duration
	Abierta    bool // still running at now
	Incompleta bool // never closed on a past day
}

func (j Jornada) Minutos() int      { return int(j.Trabajado / time.Minute) }
func (j Jornada) MinutosPausa() int { return int(j.Pausa / time.Minute) }

// CalcularJornadas folds time-ordered registros into jornadas. Worked time is
// Σ(salida − entrada) − Σ(pausa_fin − pausa_inicio). An unclosed jornada runs
// until now if its last registro is less than jornadaMaxima old, the same
// cutoff EstadoDesde applies; otherwise only its closed segments count.
// Registros outside a jornada are ignored.
func CalcularJornadas(regs []model.Registro, now time.Time) []Jornada {
	regs = append([]model.Registro(nil), regs...)
	sort.SliceStable(regs, func(i, k int) bool { return regs[i].Antes(regs[k]) })

	var (
		out     []Jornada
		cur     *Jornada
		estado  string
		desdeTs time.Time
	)
	cerrar := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, r := range regs {
		t := r.FechaHora.In(now.Location())
		switch r.Tipo {
		case model.TipoEntrada:
			if cur != nil {
				cur.Incompleta = true
				cerrar()
			}
			cur = &Jornada{Fecha: t.Format(fechaLayout), Entrada: t}
			estado, desdeTs = EstadoTrabajando, t
		case model.TipoPausaInicio:
			if cur != nil && estado == EstadoTrabajando {
				cur.Trabajado += t.Sub(desdeTs)
				estado, desdeTs = EstadoEnPausa, t
			}
		case model.TipoPausaFin:
			if cur != nil && estado == EstadoEnPausa {
				cur.Pausa += t.Sub(desdeTs)
				estado, desdeTs = EstadoTrabajando, t
			}
		case model.TipoSalida:
			if cur == nil {
				continue
			}
			if estado == EstadoTrabajando {
				cur.Trabajado += t.Sub(desdeTs)
			} else {
				cur.Pausa += t.Sub(desdeTs)
			}
			salida := t
			cur.Salida = &salida
			cerrar()
		}
	}

	if cur != nil {
		if now.Sub(desdeTs) <= jornadaMaxima {
			cur.Abierta = true
			if estado == EstadoTrabajando {
				cur.Trabajado += now.Sub(desdeTs)
			} else {
				cur.Pausa += now.Sub(desdeTs)
			}
		} else {
			cur.Incompleta = true
		}
		cerrar()
	}
	return out
}

// Horas converts minutes to hours rounded to two decimals.
func Horas(minutos int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutos)).Div(decimal.NewFromInt(60)).Round(2)
}
