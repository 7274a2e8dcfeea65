package service

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"text/template"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/worker"

	"github.com/rs/zerolog/log"
)

// Each email has a plain-text and an HTML body rendered from the same data.
type plantilla struct {
	asunto *template.Template
	texto  *template.Template
	html   *htmltemplate.Template
}

func nuevaPlantilla(nombre, asunto, texto, html string) plantilla {
	return plantilla{
		asunto: template.Must(template.New(nombre + ".asunto").Parse(asunto)),
		texto:  template.Must(template.New(nombre + ".txt").Parse(texto)),
		html:   htmltemplate.Must(htmltemplate.New(nombre + ".html").Parse(html)),
	}
}

func (p plantilla) render(to, ref string, data any) (worker.EmailJob, error) {
	var asunto, texto, html bytes.Buffer
	if err := p.asunto.Execute(&asunto, data); err != nil {
		return worker.EmailJob{}, err
	}
	if err := p.texto.Execute(&texto, data); err != nil {
		return worker.EmailJob{}, err
	}
	if err := p.html.Execute(&html, data); err != nil {
		return worker.EmailJob{}, err
	}
	return worker.EmailJob{To: to, Subject: asunto.String(), Text: texto.String(), HTML: html.String(), Ref: ref}, nil
}

const layoutHTML = `<div style="font-family:Arial,sans-serif;max-width:560px;margin:auto">
<h2 style="color:#0b5394">Impulsa Telecom</h2>
{{template "cuerpo" .}}
<p style="color:#888;font-size:12px">Este mensaje se ha generado automaticamente.</p>
</div>`

func conLayout(cuerpo string) string {
	return `{{define "cuerpo"}}` + cuerpo + `{{end}}` + layoutHTML
}

var (
	plantillaRecordatorioEntrada = nuevaPlantilla("recordatorio_entrada",
		`Recordatorio: no has fichado la entrada ({{.Hora}})`,
		`Hola {{.Nombre}},

Tu jornada de hoy ({{.Horario}}) empezaba a las {{.Hora}} y todavia no consta tu fichaje de entrada.
Puedes fichar desde {{.URL}}

Si ya has fichado o hoy no trabajas, ignora este mensaje.
`,
		conLayout(`<p>Hola {{.Nombre}},</p>
<p>Tu jornada de hoy (<b>{{.Horario}}</b>) empezaba a las <b>{{.Hora}}</b> y todavia no consta tu fichaje de entrada.</p>
<p><a href="{{.URL}}">Fichar ahora</a></p>`))

	plantillaRecordatorioSalida = nuevaPlantilla("recordatorio_salida",
		`Recordatorio: no has fichado la salida ({{.Hora}})`,
		`Hola {{.Nombre}},

Tu jornada ({{.Horario}}) terminaba a las {{.Hora}} y todavia no consta tu fichaje de salida.
Puedes fichar desde {{.URL}}
`,
		conLayout(`<p>Hola {{.Nombre}},</p>
<p>Tu jornada (<b>{{.Horario}}</b>) terminaba a las <b>{{.Hora}}</b> y todavia no consta tu fichaje de salida.</p>
<p><a href="{{.URL}}">Fichar ahora</a></p>`))

	plantillaIncidenciaEstado = nuevaPlantilla("incidencia_estado",
		`Tu incidencia del {{.Fecha}} esta {{.Estado}}`,
		`Hola {{.Nombre}},

Tu incidencia "{{.Descripcion}}" ha pasado a estado {{.Estado}}.
{{with .Respuesta}}Respuesta: {{.}}
{{end}}`,
		conLayout(`<p>Hola {{.Nombre}},</p>
<p>Tu incidencia <i>{{.Descripcion}}</i> ha pasado a estado <b>{{.Estado}}</b>.</p>
{{with .Respuesta}}<p>Respuesta: {{.}}</p>{{end}}`))

	plantillaTareaAsignada = nuevaPlantilla("tarea_asignada",
		`Nueva tarea: {{.Titulo}}`,
		`Hola {{.Nombre}},

{{.Creador}} te ha asignado la tarea "{{.Titulo}}" (prioridad {{.Prioridad}}).
{{with .FechaLimite}}Fecha limite: {{.}}
{{end}}`,
		conLayout(`<p>Hola {{.Nombre}},</p>
<p>{{.Creador}} te ha asignado la tarea <b>{{.Titulo}}</b> (prioridad {{.Prioridad}}).</p>
{{with .FechaLimite}}<p>Fecha limite: {{.}}</p>{{end}}`))

	plantillaSolicitudRevisada = nuevaPlantilla("solicitud_revisada",
		`Tu solicitud de {{.Tipo}} ha sido {{.Estado}}`,
		`Hola {{.Nombre}},

Tu solicitud de {{.Tipo}} del {{.Desde}} al {{.Hasta}} ha sido {{.Estado}}.
{{with .Comentario}}Comentario: {{.}}
{{end}}`,
		conLayout(`<p>Hola {{.Nombre}},</p>
<p>Tu solicitud de <b>{{.Tipo}}</b> del {{.Desde}} al {{.Hasta}} ha sido <b>{{.Estado}}</b>.</p>
{{with .Comentario}}<p>Comentario: {{.}}</p>{{end}}`))
)

// EmailQueue is satisfied by *worker.Dispatcher.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, e worker.EmailJob) error
}

// notificar renders p and enqueues it. Notifications are best effort: a
// failure is logged and never fails the business operation.
func notificar(ctx context.Context, q EmailQueue, p plantilla, to, ref string, data any) {
	if q == nil || to == "" {
		return
	}
	job, err := p.render(to, ref, data)
	if err == nil {
		err = q.EnqueueEmail(ctx, job)
	}
	if err != nil {
		log.Warn().Err(err).Str("to", to).Str("ref", ref).Msg("notificacion: no se pudo encolar")
	}
}
