//go:build integration

package router

// End-to-end tests against real MySQL + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/infra"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/model"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/repository"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcMySQL "github.com/testcontainers/testcontainers-go/modules/mysql"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	gin.SetMode(gin.TestMode)

	myC, err := tcMySQL.Run(ctx, "mysql:8.0.36",
		tcMySQL.WithDatabase("impulsa_test"),
		tcMySQL.WithUsername("impulsa"),
		tcMySQL.WithPassword("impulsa"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = myC.Terminate(ctx) })

	dsn, err := myC.ConnectionString(ctx, "parseTime=true", "loc=UTC", "charset=utf8mb4")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine",
		testcontainers.WithWaitStrategy(wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:                  8000,
		Env:                   "test",
		Timezone:              "Europe/Madrid",
		JWTSecret:             "test-secret-key",
		JWTExpirationHours:    8,
		JWTRefreshHours:       24,
		DBDriver:              "mysql",
		DatabaseURL:           dsn,
		RedisURL:              rdURL,
		WorkerPoolSize:        1,
		UploadMaxMB:           1,
		ReportStoragePath:     t.TempDir(),
		ReminderOffsetMinutes: 5,
		ReminderWindowMinutes: 10,
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL, true)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-e2e-1"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repository.NewUsuarioRepository(db).Create(ctx, &model.Usuario{
		NIF: "00000000T", Nombre: "Admin", Apellidos: "E2E", Email: "admin@e2e.test",
		PasswordHash: string(hash), Rol: model.RolAdministrador, Departamento: "Direccion",
		Recordatorios: true, Activo: true,
	}))

	files, err := infra.NewFileStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	metrics := infra.NewMetrics()
	svcs := BuildServices(cfg, db, Infra{
		Emails:   worker.NewDispatcher(rdb),
		Metrics:  metrics,
		Festivos: infra.NewFestivos(),
		Files:    files,
	})
	r := New(cfg, db, rdb, metrics, svcs, NewLimiters())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, token: login(t, srv, "admin@e2e.test", "admin-e2e-1")}
}

func login(t *testing.T, srv *httptest.Server, usuario, password string) string {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/v1/auth/login",
		jsonBody(t, map[string]string{"usuario": usuario, "password": password}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_JornadaCompleta(t *testing.T) {
	env := setupTestEnv(t)

	// 1. Horario L-V 09:00-17:00
	resp := do(t, env.server, http.MethodPost, "/v1/horarios", jsonBody(t, map[string]any{
		"nombre": "Oficina", "lunes": true, "martes": true, "miercoles": true, "jueves": true, "viernes": true,
		"hora_entrada": "09:00", "hora_salida": "17:00", "tiempo_pausa_min": 30,
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var horario struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &horario)

	// 2. Empleado con ese horario
	resp = do(t, env.server, http.MethodPost, "/v1/usuarios", jsonBody(t, map[string]any{
		"nif": "12345678z", "nombre": "Maria", "apellidos": "Lopez", "email": "maria@e2e.test",
		"password": "maria-pass-1", "rol": "empleado", "departamento": "Ventas", "horario_id": horario.ID,
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	emp := login(t, env.server, "12345678Z", "maria-pass-1")

	// 3. Entrada, pausa, fin de pausa, salida
	resp = do(t, env.server, http.MethodPost, "/v1/fichajes", nil, emp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var estado struct {
		Estado string `json:"estado"`
	}
	resp = do(t, env.server, http.MethodGet, "/v1/fichajes/estado", nil, emp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &estado)
	assert.Equal(t, "trabajando", estado.Estado)

	resp = do(t, env.server, http.MethodPost, "/v1/fichajes/pausa", nil, emp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, env.server, http.MethodPost, "/v1/fichajes/pausa", nil, emp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "double pause")
	resp.Body.Close()
	resp = do(t, env.server, http.MethodPost, "/v1/fichajes/pausa/fin", nil, emp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, env.server, http.MethodPost, "/v1/fichajes", nil, emp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, "/v1/fichajes/estado", nil, emp)
	decodeJSON(t, resp, &estado)
	assert.Equal(t, "fuera", estado.Estado)

	var registros []map[string]any
	resp = do(t, env.server, http.MethodGet, "/v1/fichajes", nil, emp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &registros)
	assert.Len(t, registros, 4)

	// 4. Permisos: el empleado no ve el equipo ni administra usuarios
	resp = do(t, env.server, http.MethodGet, "/v1/fichajes/equipo", nil, emp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	resp = do(t, env.server, http.MethodGet, "/v1/usuarios", nil, emp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// 5. Informe mensual
	now := time.Now()
	resp = do(t, env.server, http.MethodGet,
		"/v1/informes/me/"+now.Format("2006")+"/"+now.Format("1"), nil, emp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestE2E_IncidenciaResuelta(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodPost, "/v1/incidencias", jsonBody(t, map[string]any{
		"tipo": "fichaje", "fecha": time.Now().Format("2006-01-02"), "descripcion": "Olvide fichar la salida",
	}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var inc struct {
		ID     string `json:"id"`
		Estado string `json:"estado"`
	}
	decodeJSON(t, resp, &inc)
	assert.Equal(t, "pendiente", inc.Estado)

	resp = do(t, env.server, http.MethodPatch, "/v1/incidencias/"+inc.ID+"/estado",
		jsonBody(t, map[string]any{"estado": "resuelta", "respuesta": "Corregido"}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &inc)
	assert.Equal(t, "resuelta", inc.Estado)

	resp = do(t, env.server, http.MethodPatch, "/v1/incidencias/"+inc.ID+"/estado",
		jsonBody(t, map[string]any{"estado": "rechazada"}), env.token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "terminal state")
	resp.Body.Close()
}

func TestE2E_RecordatoriosDryRunYHealth(t *testing.T) {
	env := setupTestEnv(t)

	resp := do(t, env.server, http.MethodPost, "/v1/recordatorios/ejecutar",
		jsonBody(t, map[string]any{"dry_run": true}), env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		DryRun bool `json:"dry_run"`
	}
	decodeJSON(t, resp, &res)
	assert.True(t, res.DryRun)

	resp = do(t, env.server, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, "connected", health["redis"])
	assert.EqualValues(t, 0, health["email_dlq"])

	resp = do(t, env.server, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
