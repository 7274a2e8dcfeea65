package dto

// ─── Horarios ────────────────────────────────────────────────────────────────

type CrearHorarioRequest struct {
	Nombre         string `json:"nombre"           validate:"required,min=2,max=80"`
	Lunes          bool   `json:"lunes"`
	Martes         bool   `json:"martes"`
	Miercoles      bool   `json:"miercoles"`
	Jueves         bool   `json:"jueves"`
	Viernes        bool   `json:"viernes"`
	Sabado         bool   `json:"sabado"`
	Domingo        bool   `json:"domingo"`
	HoraEntrada    string `json:"hora_entrada"     validate:"required,hora"`
	HoraSalida     string `json:"hora_salida"      validate:"required,hora,nefield=HoraEntrada"`
	TiempoPausaMin int    `json:"tiempo_pausa_min" validate:"min=0,max=240"`
}

type ActualizarHorarioRequest struct {
	Nombre         *string `json:"nombre"           validate:"omitempty,min=2,max=80"`
	Lunes          *bool   `json:"lunes"`
	Martes         *bool   `json:"martes"`
	Miercoles      *bool   `json:"miercoles"`
	Jueves         *bool   `json:"jueves"`
	Viernes        *bool   `json:"viernes"`
	Sabado         *bool   `json:"sabado"`
	Domingo        *bool   `json:"domingo"`
	HoraEntrada    *string `json:"hora_entrada"     validate:"omitempty,hora"`
	HoraSalida     *string `json:"hora_salida"      validate:"omitempty,hora"`
	TiempoPausaMin *int    `json:"tiempo_pausa_min" validate:"omitempty,min=0,max=240"`
	Activo         *bool   `json:"activo"`
}

type HorarioResponse struct {
	ID             string `json:"id"`
	Nombre         string `json:"nombre"`
	Lunes          bool   `json:"lunes"`
	Martes         bool   `json:"martes"`
	Miercoles      bool   `json:"miercoles"`
	Jueves         bool   `json:"jueves"`
	Viernes        bool   `json:"viernes"`
	Sabado         bool   `json:"sabado"`
	Domingo        bool   `json:"domingo"`
	HoraEntrada    string `json:"hora_entrada"`
	HoraSalida     string `json:"hora_salida"`
	TiempoPausaMin int    `json:"tiempo_pausa_min"`
	MinutosJornada int    `json:"minutos_jornada"`
	Activo         bool   `json:"activo"`
}

// ─── Turnos ──────────────────────────────────────────────────────────────────

type CrearTurnoRequest struct {
	UsuarioNIF  string  `json:"usuario_nif"  validate:"required,nif"`
	HorarioID   string  `json:"horario_id"   validate:"required,uuid"`
	Semanas     string  `json:"semanas"      validate:"required,len=5,bitmask"`
	Dias        string  `json:"dias"         validate:"required,len=7,bitmask"`
	FechaInicio *string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    *string `json:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	Prioridad   int     `json:"prioridad"    validate:"min=0,max=100"`
}

type ActualizarTurnoRequest struct {
	HorarioID   *string `json:"horario_id"   validate:"omitempty,uuid"`
	Semanas     *string `json:"semanas"      validate:"omitempty,len=5,bitmask"`
	Dias        *string `json:"dias"         validate:"omitempty,len=7,bitmask"`
	FechaInicio *string `json:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	FechaFin    *string `json:"fecha_fin"    validate:"omitempty,datetime=2006-01-02"`
	Prioridad   *int    `json:"prioridad"    validate:"omitempty,min=0,max=100"`
}

type TurnoResponse struct {
	ID          string           `json:"id"`
	UsuarioNIF  string           `json:"usuario_nif"`
	HorarioID   string           `json:"horario_id"`
	Horario     *HorarioResponse `json:"horario,omitempty"`
	Semanas     string           `json:"semanas"`
	Dias        string           `json:"dias"`
	FechaInicio *string          `json:"fecha_inicio,omitempty"`
	FechaFin    *string          `json:"fecha_fin,omitempty"`
	Prioridad   int              `json:"prioridad"`
}

// ─── Calendario ──────────────────────────────────────────────────────────────

type DiaCalendario struct {
	Fecha     string  `json:"fecha"`
	DiaSemana string  `json:"dia_semana"`
	Laborable bool    `json:"laborable"`
	Horario   *string `json:"horario,omitempty"`
	Entrada   *string `json:"entrada,omitempty"`
	Salida    *string `json:"salida,omitempty"`
	Festivo   *string `json:"festivo,omitempty"`
	Ausencia  *string `json:"ausencia,omitempty"`
}

type CalendarioResponse struct {
	UsuarioNIF string          `json:"usuario_nif"`
	Mes        string          `json:"mes"`
	Dias       []DiaCalendario `json:"dias"`
}
