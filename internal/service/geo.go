package service

import (
	"math"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
)

const radioTierraM = 6371000.0

// Haversine returns the great-circle distance in metres.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * radioTierraM * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Geocerca is the outcome of matching a point against the work centers.
type Geocerca struct {
	Centro    *model.CentroTrabajo
	Distancia float64
	Dentro    bool
}

// CentroMasCercano matches (lat, lon) against centros. A center whose radius
// contains the point wins over a nearer one that does not. Returns nil when
// centros is empty.
func CentroMasCercano(centros []model.CentroTrabajo, lat, lon float64) *Geocerca {
	var best *Geocerca
	for i := range centros {
		c := &centros[i]
		d := Haversine(lat, lon, c.Latitud, c.Longitud)
		g := &Geocerca{Centro: c, Distancia: d, Dentro: d <= c.RadioM}
		switch {
		case best == nil:
			best = g
		case g.Dentro != best.Dentro:
			if g.Dentro {
				best = g
			}
		case d < best.Distancia:
			best = g
		}
	}
	return best
}

func validarCoordenadas(lat, lon float64) error {
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return invalido("latitud fuera de rango")
	}
	if lon < -180 || lon > 180 || math.IsNaN(lon) {
		return invalido("longitud fuera de rango")
	}
	return nil
}
