package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

// reloj is a settable clock for tests.
type reloj struct{ t time.Time }

func (r *reloj) ahora() time.Time        { return r.t }
func (r *reloj) avanzar(d time.Duration) { r.t = r.t.Add(d) }
func en(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func strp(s string) *string { return &s }

var (
	admin      = Actor{NIF: "00000000T", Rol: model.RolAdministrador}
	supervisor = Actor{NIF: "22222222J", Rol: model.RolSupervisor, Departamento: "Soporte"}
	empleada   = Actor{NIF: "11111111H", Rol: model.RolEmpleado, Departamento: "Soporte"}
	ajeno      = Actor{NIF: "33333333P", Rol: model.RolEmpleado, Departamento: "Ventas"}
)

func horarioOficina() *model.Horario {
	return &model.Horario{
		ID: uuid.New(), Nombre: "Oficina", Activo: true,
		Lunes: true, Martes: true, Miercoles: true, Jueves: true, Viernes: true,
		HoraEntrada: "09:00", HoraSalida: "17:00", TiempoPausaMin: 60,
	}
}

// plantilla de usuarios: the four actors as stored users.
func usuariosBase() *stubUsuarioRepo {
	r := newStubUsuarioRepo()
	for _, a := range []Actor{admin, supervisor, empleada, ajeno} {
		r.put(&model.Usuario{
			NIF: a.NIF, Nombre: "Usuario " + a.NIF[:3], Email: strings.ToLower(a.NIF) + "@impulsa.test",
			Rol: a.Rol, Departamento: a.Departamento, Activo: true, Recordatorios: true,
		})
	}
	return r
}

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	mu       sync.RWMutex
	usuarios map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) put(u *model.Usuario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *u
	r.usuarios[u.NIF] = &c
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	r.mu.RLock()
	for _, x := range r.usuarios {
		if x.NIF == u.NIF || x.Email == u.Email {
			r.mu.RUnlock()
			return gorm.ErrDuplicatedKey
		}
	}
	r.mu.RUnlock()
	r.put(u)
	return nil
}

func (r *stubUsuarioRepo) FindByNIF(_ context.Context, nif string) (*model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.usuarios[strings.ToUpper(nif)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *u
	return &c, nil
}

func (r *stubUsuarioRepo) FindByIdentificador(_ context.Context, id string) (*model.Usuario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.usuarios {
		if u.Activo && (strings.EqualFold(u.NIF, id) || strings.EqualFold(u.Email, id)) {
			c := *u
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) filtrar(keep func(*model.Usuario) bool) []model.Usuario {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Usuario
	for _, u := range r.usuarios {
		if keep(u) {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].NIF < out[k].NIF })
	return out
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	return r.filtrar(func(u *model.Usuario) bool { return incluirInactivos || u.Activo }), nil
}

func (r *stubUsuarioRepo) ListByDepartamento(_ context.Context, dep string) ([]model.Usuario, error) {
	return r.filtrar(func(u *model.Usuario) bool { return u.Activo && u.Departamento == dep }), nil
}

func (r *stubUsuarioRepo) ListParaRecordatorio(_ context.Context) ([]model.Usuario, error) {
	return r.filtrar(func(u *model.Usuario) bool { return u.Activo && u.Recordatorios }), nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.put(u)
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, nif string, activo bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[nif]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = activo
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

type stubRegistroRepo struct {
	mu   sync.RWMutex
	regs []model.Registro
	err  error
}

func (r *stubRegistroRepo) add(nif, tipo string, at time.Time) {
	r.regs = append(r.regs, model.Registro{ID: uuid.New(), UsuarioNIF: nif, Tipo: tipo, FechaHora: at, Origen: "web"})
}

func (r *stubRegistroRepo) Create(_ context.Context, reg *model.Registro) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	r.regs = append(r.regs, *reg)
	return nil
}

func (r *stubRegistroRepo) CreateMany(ctx context.Context, rs []model.Registro) error {
	for i := range rs {
		if err := r.Create(ctx, &rs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubRegistroRepo) de(nif string) []model.Registro {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Registro
	for _, x := range r.regs {
		if x.UsuarioNIF == nif {
			out = append(out, x)
		}
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].Antes(out[k]) })
	return out
}

func (r *stubRegistroRepo) Ultimo(_ context.Context, nif string) (*model.Registro, error) {
	if r.err != nil {
		return nil, r.err
	}
	rs := r.de(nif)
	if len(rs) == 0 {
		return nil, nil
	}
	return &rs[len(rs)-1], nil
}

func (r *stubRegistroRepo) ListByUsuarioRango(_ context.Context, nif string, desde, hasta time.Time) ([]model.Registro, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.Registro
	for _, x := range r.de(nif) {
		if !x.FechaHora.Before(desde) && x.FechaHora.Before(hasta) {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *stubRegistroRepo) ListEquipo(_ context.Context, desde, hasta time.Time, _ string) ([]repository.RegistroEquipo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []repository.RegistroEquipo
	for _, x := range r.regs {
		if !x.FechaHora.Before(desde) && x.FechaHora.Before(hasta) {
			out = append(out, repository.RegistroEquipo{Registro: x})
		}
	}
	return out, nil
}

func (r *stubRegistroRepo) ExisteTipoDesde(_ context.Context, nif, tipo string, desde time.Time) (bool, error) {
	for _, x := range r.de(nif) {
		if x.Tipo == tipo && !x.FechaHora.Before(desde) {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.RegistroRepository = (*stubRegistroRepo)(nil)

type stubTurnoRepo struct {
	turnos []model.Turno
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos = append(r.turnos, *t)
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	for i := range r.turnos {
		if r.turnos[i].ID == id {
			t := r.turnos[i]
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTurnoRepo) ListByUsuario(_ context.Context, nif string) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.turnos {
		if t.UsuarioNIF == nif {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *stubTurnoRepo) ListAll(_ context.Context) ([]model.Turno, error) {
	return append([]model.Turno(nil), r.turnos...), nil
}

func (r *stubTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	for i := range r.turnos {
		if r.turnos[i].ID == t.ID {
			r.turnos[i] = *t
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTurnoRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.turnos {
		if r.turnos[i].ID == id {
			r.turnos = append(r.turnos[:i], r.turnos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.TurnoRepository = (*stubTurnoRepo)(nil)

type stubHorarioRepo struct {
	horarios map[uuid.UUID]*model.Horario
	enUso    map[uuid.UUID]int64
}

func newStubHorarioRepo(hs ...*model.Horario) *stubHorarioRepo {
	r := &stubHorarioRepo{horarios: make(map[uuid.UUID]*model.Horario), enUso: make(map[uuid.UUID]int64)}
	for _, h := range hs {
		r.horarios[h.ID] = h
	}
	return r
}

func (r *stubHorarioRepo) Create(_ context.Context, h *model.Horario) error {
	for _, x := range r.horarios {
		if x.Nombre == h.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	c := *h
	r.horarios[h.ID] = &c
	return nil
}

func (r *stubHorarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Horario, error) {
	h, ok := r.horarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *h
	return &c, nil
}

func (r *stubHorarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Horario, error) {
	var out []model.Horario
	for _, h := range r.horarios {
		if incluirInactivos || h.Activo {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Nombre < out[k].Nombre })
	return out, nil
}

func (r *stubHorarioRepo) Update(_ context.Context, h *model.Horario) error {
	c := *h
	r.horarios[h.ID] = &c
	return nil
}

func (r *stubHorarioRepo) EnUso(_ context.Context, id uuid.UUID) (int64, error) {
	return r.enUso[id], nil
}

func (r *stubHorarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.horarios[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.horarios, id)
	return nil
}

var _ repository.HorarioRepository = (*stubHorarioRepo)(nil)

type stubSolicitudRepo struct {
	mu  sync.RWMutex
	sol map[uuid.UUID]*model.Solicitud
}

func newStubSolicitudRepo() *stubSolicitudRepo {
	return &stubSolicitudRepo{sol: make(map[uuid.UUID]*model.Solicitud)}
}

func (r *stubSolicitudRepo) Create(_ context.Context, s *model.Solicitud) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	c := *s
	r.sol[s.ID] = &c
	return nil
}

func (r *stubSolicitudRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sol[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

func (r *stubSolicitudRepo) filtrar(keep func(*model.Solicitud) bool) []model.Solicitud {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Solicitud
	for _, s := range r.sol {
		if keep(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].FechaInicio < out[k].FechaInicio })
	return out
}

func (r *stubSolicitudRepo) List(_ context.Context, f repository.SolicitudFiltro) ([]model.Solicitud, error) {
	return r.filtrar(func(s *model.Solicitud) bool {
		return (f.NIF == "" || s.UsuarioNIF == f.NIF) && (f.Estado == "" || s.Estado == f.Estado)
	}), nil
}

func (r *stubSolicitudRepo) Solapadas(_ context.Context, nif, desde, hasta string) ([]model.Solicitud, error) {
	return r.filtrar(func(s *model.Solicitud) bool {
		return s.UsuarioNIF == nif &&
			(s.Estado == model.SolicitudPendiente || s.Estado == model.SolicitudAprobada) &&
			s.FechaInicio <= hasta && s.FechaFin >= desde
	}), nil
}

func (r *stubSolicitudRepo) AprobadasEnRango(_ context.Context, nif, desde, hasta string) ([]model.Solicitud, error) {
	return r.filtrar(func(s *model.Solicitud) bool {
		return (nif == "" || s.UsuarioNIF == nif) && s.Estado == model.SolicitudAprobada &&
			s.FechaInicio <= hasta && s.FechaFin >= desde
	}), nil
}

func (r *stubSolicitudRepo) Update(ctx context.Context, s *model.Solicitud) error {
	return r.Create(ctx, s)
}

var _ repository.SolicitudRepository = (*stubSolicitudRepo)(nil)

type stubRecordatorioRepo struct {
	filas map[string]model.RecordatorioEnviado
}

func newStubRecordatorioRepo() *stubRecordatorioRepo {
	return &stubRecordatorioRepo{filas: make(map[string]model.RecordatorioEnviado)}
}

func claveRecordatorio(nif, tipo, fecha string) string { return nif + "|" + tipo + "|" + fecha }

func (r *stubRecordatorioRepo) Registrar(_ context.Context, rec *model.RecordatorioEnviado) error {
	k := claveRecordatorio(rec.UsuarioNIF, rec.Tipo, rec.Fecha)
	if _, ok := r.filas[k]; ok {
		return repository.ErrYaEnviado
	}
	r.filas[k] = *rec
	return nil
}

func (r *stubRecordatorioRepo) Existe(_ context.Context, nif, tipo, fecha string) (bool, error) {
	_, ok := r.filas[claveRecordatorio(nif, tipo, fecha)]
	return ok, nil
}

func (r *stubRecordatorioRepo) ListByFecha(_ context.Context, fecha string) ([]model.RecordatorioEnviado, error) {
	var out []model.RecordatorioEnviado
	for _, f := range r.filas {
		if f.Fecha == fecha {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *stubRecordatorioRepo) Delete(_ context.Context, nif, tipo, fecha string) error {
	delete(r.filas, claveRecordatorio(nif, tipo, fecha))
	return nil
}

var _ repository.RecordatorioRepository = (*stubRecordatorioRepo)(nil)

type stubIncidenciaRepo struct {
	mu          sync.RWMutex
	incidencias map[uuid.UUID]*model.Incidencia
	usuarios    *stubUsuarioRepo
}

func newStubIncidenciaRepo(usuarios *stubUsuarioRepo) *stubIncidenciaRepo {
	return &stubIncidenciaRepo{incidencias: make(map[uuid.UUID]*model.Incidencia), usuarios: usuarios}
}

func (r *stubIncidenciaRepo) Create(_ context.Context, i *model.Incidencia) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	c := *i
	c.Usuario = nil
	r.incidencias[i.ID] = &c
	return nil
}

func (r *stubIncidenciaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Incidencia, error) {
	r.mu.RLock()
	i, ok := r.incidencias[id]
	r.mu.RUnlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *i
	if u, err := r.usuarios.FindByNIF(ctx, c.UsuarioNIF); err == nil {
		c.Usuario = u
	}
	return &c, nil
}

func (r *stubIncidenciaRepo) filtrar(ctx context.Context, f repository.IncidenciaFiltro) []model.Incidencia {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Incidencia
	for _, i := range r.incidencias {
		if f.NIF != "" && i.UsuarioNIF != f.NIF {
			continue
		}
		if f.Departamento != "" {
			u, err := r.usuarios.FindByNIF(ctx, i.UsuarioNIF)
			if err != nil || u.Departamento != f.Departamento {
				continue
			}
		}
		if f.Estado != "" && i.Estado != f.Estado {
			continue
		}
		if f.Abiertas && i.Terminal() {
			continue
		}
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Fecha > out[b].Fecha })
	return out
}

func (r *stubIncidenciaRepo) List(ctx context.Context, f repository.IncidenciaFiltro) ([]model.Incidencia, int64, error) {
	all := r.filtrar(ctx, f)
	total := int64(len(all))
	ini := (f.Page - 1) * f.Limit
	if ini > len(all) {
		ini = len(all)
	}
	fin := ini + f.Limit
	if fin > len(all) {
		fin = len(all)
	}
	return all[ini:fin], total, nil
}

func (r *stubIncidenciaRepo) Count(ctx context.Context, f repository.IncidenciaFiltro) (int64, error) {
	return int64(len(r.filtrar(ctx, f))), nil
}

func (r *stubIncidenciaRepo) Update(ctx context.Context, i *model.Incidencia) error {
	return r.Create(ctx, i)
}

var _ repository.IncidenciaRepository = (*stubIncidenciaRepo)(nil)

type stubTareaRepo struct {
	mu     sync.RWMutex
	tareas map[uuid.UUID]*model.Tarea
}

func newStubTareaRepo() *stubTareaRepo {
	return &stubTareaRepo{tareas: make(map[uuid.UUID]*model.Tarea)}
}

func (r *stubTareaRepo) Create(_ context.Context, t *model.Tarea) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	c := *t
	r.tareas[t.ID] = &c
	return nil
}

func (r *stubTareaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tarea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tareas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *t
	return &c, nil
}

func (r *stubTareaRepo) List(_ context.Context, f repository.TareaFiltro) ([]model.Tarea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Tarea
	for _, t := range r.tareas {
		asignada, creada := t.AsignadoNIF == f.NIF, t.CreadorNIF == f.NIF
		switch f.Ambito {
		case "asignadas":
			creada = false
		case "creadas":
			asignada = false
		}
		if (asignada || creada) && (f.Estado == "" || t.Estado == f.Estado) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Titulo < out[k].Titulo })
	return out, nil
}

func (r *stubTareaRepo) CountPendientes(_ context.Context, nif string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, t := range r.tareas {
		if t.AsignadoNIF == nif && t.Estado != model.TareaCompletada {
			n++
		}
	}
	return n, nil
}

func (r *stubTareaRepo) Update(ctx context.Context, t *model.Tarea) error {
	return r.Create(ctx, t)
}

func (r *stubTareaRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tareas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tareas, id)
	return nil
}

var _ repository.TareaRepository = (*stubTareaRepo)(nil)

type stubEventoRepo struct {
	mu      sync.RWMutex
	eventos map[uuid.UUID]*model.Evento
}

func newStubEventoRepo() *stubEventoRepo {
	return &stubEventoRepo{eventos: make(map[uuid.UUID]*model.Evento)}
}

func (r *stubEventoRepo) Create(_ context.Context, e *model.Evento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	c := *e
	r.eventos[e.ID] = &c
	return nil
}

func (r *stubEventoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Evento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.eventos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *e
	return &c, nil
}

func (r *stubEventoRepo) ListVisibles(_ context.Context, f repository.EventoFiltro) ([]model.Evento, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Evento
	for _, e := range r.eventos {
		if !e.Inicio.Before(f.Hasta) || e.Fin.Before(f.Desde) {
			continue
		}
		visible := f.Todos || e.Visibilidad == model.VisibilidadGlobal || e.CreadorNIF == f.NIF ||
			(e.Visibilidad == model.VisibilidadDepartamento && e.Departamento != nil && *e.Departamento == f.Departamento)
		if visible {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Inicio.Before(out[k].Inicio) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubEventoRepo) Update(ctx context.Context, e *model.Evento) error {
	return r.Create(ctx, e)
}

func (r *stubEventoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.eventos, id)
	return nil
}

var _ repository.EventoRepository = (*stubEventoRepo)(nil)

type stubDocumentoRepo struct {
	docs map[uuid.UUID]*model.Documento
	err  error
}

func newStubDocumentoRepo() *stubDocumentoRepo {
	return &stubDocumentoRepo{docs: make(map[uuid.UUID]*model.Documento)}
}

func (r *stubDocumentoRepo) Create(_ context.Context, d *model.Documento) error {
	if r.err != nil {
		return r.err
	}
	c := *d
	r.docs[d.ID] = &c
	return nil
}

func (r *stubDocumentoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Documento, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *d
	return &c, nil
}

func (r *stubDocumentoRepo) ListByUsuario(_ context.Context, nif string) ([]model.Documento, error) {
	var out []model.Documento
	for _, d := range r.docs {
		if d.UsuarioNIF == nif {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDocumentoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.docs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.docs, id)
	return nil
}

var _ repository.DocumentoRepository = (*stubDocumentoRepo)(nil)

type stubCentroRepo struct {
	centros map[uuid.UUID]*model.CentroTrabajo
}

func newStubCentroRepo(cs ...model.CentroTrabajo) *stubCentroRepo {
	r := &stubCentroRepo{centros: make(map[uuid.UUID]*model.CentroTrabajo)}
	for i := range cs {
		c := cs[i]
		r.centros[c.ID] = &c
	}
	return r
}

func (r *stubCentroRepo) Create(_ context.Context, c *model.CentroTrabajo) error {
	for _, x := range r.centros {
		if x.Nombre == c.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.centros[c.ID] = &cp
	return nil
}

func (r *stubCentroRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CentroTrabajo, error) {
	c, ok := r.centros[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCentroRepo) List(_ context.Context, incluirInactivos bool) ([]model.CentroTrabajo, error) {
	var out []model.CentroTrabajo
	for _, c := range r.centros {
		if incluirInactivos || c.Activo {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Nombre < out[k].Nombre })
	return out, nil
}

func (r *stubCentroRepo) Update(_ context.Context, c *model.CentroTrabajo) error {
	cp := *c
	r.centros[c.ID] = &cp
	return nil
}

var _ repository.CentroRepository = (*stubCentroRepo)(nil)

// stubCentros serves a fixed list as CentroProvider.
type stubCentros []model.CentroTrabajo

func (s stubCentros) Activos(context.Context) ([]model.CentroTrabajo, error) { return s, nil }

// stubEmails records enqueued jobs; err makes every enqueue fail.
type stubEmails struct {
	mu   sync.Mutex
	jobs []worker.EmailJob
	err  error
}

func (q *stubEmails) EnqueueEmail(_ context.Context, j worker.EmailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, j)
	return nil
}

var errCola = errors.New("redis caido")
