package router

import (
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/handler"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/middleware"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Limiters are the rate limiters mounted by New; the caller purges them.
type Limiters struct {
	Global *middleware.RateLimit
	Login  *middleware.RateLimit
}

func NewLimiters() Limiters {
	return Limiters{
		Global: middleware.NewRateLimit(1000, time.Minute, "Demasiadas peticiones. Intente mas tarde."), // 1000 req/min per IP
		Login:  middleware.NewLoginRateLimit(),
	}
}

// New returns a configured Gin engine serving svcs.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, metrics *infra.Metrics, svcs *Services, lim Limiters) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AppURL))
	r.Use(middleware.ErrorHandler())
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}
	if lim.Global != nil {
		r.Use(lim.Global.Handler())
	}

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(svcs.Auth)
	usuariosH := handler.NewUsuariosHandler(svcs.Auth)
	fichajesH := handler.NewFichajesHandler(svcs.Fichajes)
	horariosH := handler.NewHorariosHandler(svcs.Horarios)
	ubicacionesH := handler.NewUbicacionesHandler(svcs.Ubicaciones)
	eventosH := handler.NewEventosHandler(svcs.Eventos)
	incidenciasH := handler.NewIncidenciasHandler(svcs.Incidencias)
	tareasH := handler.NewTareasHandler(svcs.Tareas)
	solicitudesH := handler.NewSolicitudesHandler(svcs.Solicitudes)
	informesH := handler.NewInformesHandler(svcs.Informes)
	panelH := handler.NewPanelHandler(svcs.Panel)
	recordatoriosH := handler.NewRecordatoriosHandler(svcs.Recordatorios, svcs.Clock)

	const (
		admin = model.RolAdministrador
		sup   = model.RolSupervisor
	)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	var dlq handler.DLQCounter
	if rdb != nil {
		dlq = worker.NewDispatcher(rdb)
	}
	r.GET("/health", handler.Health(db, rdb, dlq, worker.QueueEmail))
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		login := []gin.HandlerFunc{authH.Login}
		if lim.Login != nil {
			login = append([]gin.HandlerFunc{lim.Login.Handler()}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.PUT("/auth/password", authH.CambiarPassword)

		v1.GET("/usuarios/me", usuariosH.Me)
		v1.GET("/usuarios/:nif", middleware.RequireRole(sup, admin), usuariosH.Obtener)
		v1.GET("/usuarios", middleware.RequireRole(sup, admin), usuariosH.Listar)
		usuarios := v1.Group("/usuarios", middleware.RequireRole(admin))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.PUT("/:nif", usuariosH.Actualizar)
			usuarios.DELETE("/:nif", usuariosH.Desactivar)
			usuarios.PATCH("/:nif/reactivar", usuariosH.Reactivar)
		}

		fich := v1.Group("/fichajes")
		{
			fich.POST("", fichajesH.Fichar)
			fich.POST("/pausa", fichajesH.IniciarPausa)
			fich.POST("/pausa/fin", fichajesH.FinalizarPausa)
			fich.GET("/estado", fichajesH.Estado)
			fich.GET("", fichajesH.Historial)
			fich.GET("/resumen", fichajesH.Resumen)
			fich.POST("/manual", middleware.RequireRole(sup, admin), fichajesH.Manual)
			fich.GET("/equipo", middleware.RequireRole(sup, admin), fichajesH.Equipo)
		}

		// Horarios: everyone reads, administrador writes
		v1.GET("/horarios", horariosH.Listar)
		v1.GET("/horarios/:id", horariosH.Obtener)
		hor := v1.Group("/horarios", middleware.RequireRole(admin))
		{
			hor.POST("", horariosH.Crear)
			hor.PUT("/:id", horariosH.Actualizar)
			hor.DELETE("/:id", horariosH.Eliminar)
		}
		v1.GET("/turnos", horariosH.ListarTurnos)
		turnos := v1.Group("/turnos", middleware.RequireRole(admin))
		{
			turnos.POST("", horariosH.CrearTurno)
			turnos.PUT("/:id", horariosH.ActualizarTurno)
			turnos.DELETE("/:id", horariosH.EliminarTurno)
		}
		v1.GET("/calendario", horariosH.Calendario)
		v1.GET("/calendario/dia", horariosH.HorarioEfectivo)

		ev := v1.Group("/eventos")
		{
			ev.POST("", eventosH.Crear)
			ev.GET("", eventosH.Listar)
			ev.GET("/proximos", eventosH.Proximos)
			ev.GET("/:id", eventosH.Obtener)
			ev.PUT("/:id", eventosH.Actualizar)
			ev.DELETE("/:id", eventosH.Eliminar)
		}

		inc := v1.Group("/incidencias")
		{
			inc.POST("", incidenciasH.Crear)
			inc.GET("", incidenciasH.Listar)
			inc.GET("/:id", incidenciasH.Obtener)
			inc.PATCH("/:id/estado", middleware.RequireRole(sup, admin), incidenciasH.CambiarEstado)
		}

		tar := v1.Group("/tareas")
		{
			tar.POST("", tareasH.Crear)
			tar.GET("", tareasH.Listar)
			tar.PUT("/:id", tareasH.Actualizar)
			tar.PATCH("/:id/estado", tareasH.CambiarEstado)
			tar.DELETE("/:id", tareasH.Eliminar)
		}

		sol := v1.Group("/solicitudes")
		{
			sol.POST("", solicitudesH.Crear)
			sol.GET("", solicitudesH.Listar)
			sol.GET("/:id", solicitudesH.Obtener)
			sol.POST("/:id/cancelar", solicitudesH.Cancelar)
			sol.POST("/:id/revisar", middleware.RequireRole(sup, admin), solicitudesH.Revisar)
		}

		if svcs.Documentos != nil {
			documentosH := handler.NewDocumentosHandler(svcs.Documentos, int64(cfg.UploadMaxMB)<<20)
			doc := v1.Group("/documentos")
			{
				doc.POST("", documentosH.Subir)
				doc.GET("", documentosH.Listar)
				doc.GET("/:id", documentosH.Descargar)
				doc.DELETE("/:id", documentosH.Eliminar)
			}
		}

		v1.GET("/centros", ubicacionesH.ListarCentros)
		cen := v1.Group("/centros", middleware.RequireRole(admin))
		{
			cen.POST("", ubicacionesH.CrearCentro)
			cen.PUT("/:id", ubicacionesH.ActualizarCentro)
		}
		ubi := v1.Group("/ubicaciones")
		{
			ubi.POST("", ubicacionesH.Registrar)
			ubi.GET("/ultimas", middleware.RequireRole(sup, admin), ubicacionesH.Ultimas)
			ubi.GET("/recorrido", ubicacionesH.Recorrido)
		}

		v1.GET("/informes/:nif/:anio/:mes", informesH.Mensual)
		v1.GET("/panel", panelH.Resumen)

		rec := v1.Group("/recordatorios", middleware.RequireRole(admin))
		{
			rec.GET("", recordatoriosH.Listar)
			rec.POST("/ejecutar", recordatoriosH.Ejecutar)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
