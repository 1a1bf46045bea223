package service_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"expedientes_backend/internals/configs"
	disposicionModel "expedientes_backend/internals/features/disposiciones/model"
	docenteModel "expedientes_backend/internals/features/docentes/model"
	escuelaModel "expedientes_backend/internals/features/escuelas/model"
	expedienteModel "expedientes_backend/internals/features/expedientes/model"
	authHelper "expedientes_backend/internals/features/users/auth/helper"
	authModel "expedientes_backend/internals/features/users/auth/model"
	"expedientes_backend/internals/features/users/auth/service"
	routes "expedientes_backend/internals/route"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	configs.JWTSecret = "clave-de-firma-solo-para-pruebas-0123456789"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("pool sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&authModel.UserModel{},
		&authModel.TokenBlacklist{},
		&docenteModel.DocenteModel{},
		&escuelaModel.EscuelaModel{},
		&expedienteModel.ExpedienteModel{},
		&expedienteModel.ExpedienteDocente{},
		&expedienteModel.ExpedienteEscuela{},
		&disposicionModel.DisposicionModel{},
	); err != nil {
		t.Fatalf("migraciones: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	routes.SetupRoutes(app, db)
	return app, db
}

func createUser(t *testing.T, db *gorm.DB, username, role string) (authModel.UserModel, string) {
	t.Helper()
	hash, err := authHelper.HashPassword("secreto123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := authModel.UserModel{
		Username:     username,
		Email:        username + "@test.local",
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("crear usuario: %v", err)
	}
	token, err := service.GenerateToken(u)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u, token
}

func doReq(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRegisterYLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doReq(t, app, "POST", "/auth/register", "", fiber.Map{
		"username": "mperez",
		"email":    "mperez@test.local",
		"password": "secreto123",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var reg struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	decode(t, resp, &reg)
	if !reg.Success || reg.Token == "" {
		t.Fatalf("register sin token: %+v", reg)
	}
	if reg.User.Role != "user" {
		t.Fatalf("registro anónimo con rol %q", reg.User.Role)
	}

	resp = doReq(t, app, "POST", "/auth/login", "", fiber.Map{
		"username": "mperez",
		"password": "secreto123",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, resp, &login)

	resp = doReq(t, app, "GET", "/auth/me", login.Token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decode(t, resp, &me)
	if me.User.Username != "mperez" {
		t.Fatalf("me devolvió %q", me.User.Username)
	}
}

func TestRegisterDuplicado(t *testing.T) {
	app, db := newTestApp(t)
	createUser(t, db, "jgarcia", "user")

	resp := doReq(t, app, "POST", "/auth/register", "", fiber.Map{
		"username": "jgarcia",
		"email":    "otro@test.local",
		"password": "secreto123",
	})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, esperado 409", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	if body.Error != "Username o email ya existe" {
		t.Fatalf("mensaje inesperado: %q", body.Error)
	}
}

func TestRegisterAdminRequiereAdmin(t *testing.T) {
	app, db := newTestApp(t)
	_, adminToken := createUser(t, db, "admin", "admin")

	// Sin token no se puede crear un admin
	resp := doReq(t, app, "POST", "/auth/register", "", fiber.Map{
		"username": "intruso",
		"email":    "intruso@test.local",
		"password": "secreto123",
		"role":     "admin",
	})
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, esperado 403", resp.StatusCode)
	}

	// Con token de admin sí
	resp = doReq(t, app, "POST", "/auth/register", adminToken, fiber.Map{
		"username": "segundo_admin",
		"email":    "segundo@test.local",
		"password": "secreto123",
		"role":     "admin",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, esperado 201", resp.StatusCode)
	}
	var reg struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decode(t, resp, &reg)
	if reg.User.Role != "admin" {
		t.Fatalf("rol = %q", reg.User.Role)
	}
}

// Usuario inexistente y contraseña incorrecta deben responder exactamente
// lo mismo para no revelar qué cuentas existen.
func TestLoginMensajeGenerico(t *testing.T) {
	app, db := newTestApp(t)
	createUser(t, db, "existente", "user")

	readBody := func(resp *http.Response) (int, string) {
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("leer body: %v", err)
		}
		return resp.StatusCode, string(b)
	}

	s1, b1 := readBody(doReq(t, app, "POST", "/auth/login", "", fiber.Map{
		"username": "existente",
		"password": "incorrecta",
	}))
	s2, b2 := readBody(doReq(t, app, "POST", "/auth/login", "", fiber.Map{
		"username": "no_existe",
		"password": "incorrecta",
	}))

	if s1 != fiber.StatusUnauthorized || s2 != fiber.StatusUnauthorized {
		t.Fatalf("status = %d / %d, esperado 401", s1, s2)
	}
	if b1 != b2 {
		t.Fatalf("las respuestas difieren:\n%s\n%s", b1, b2)
	}
}

func TestLogoutInvalidaToken(t *testing.T) {
	app, db := newTestApp(t)
	_, token := createUser(t, db, "saliente", "user")

	resp := doReq(t, app, "GET", "/auth/me", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me antes de logout = %d", resp.StatusCode)
	}

	resp = doReq(t, app, "POST", "/auth/logout", token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	resp = doReq(t, app, "GET", "/auth/me", token, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("me después de logout = %d, esperado 401", resp.StatusCode)
	}
}

func TestUsersSoloAdmin(t *testing.T) {
	app, db := newTestApp(t)
	_, userToken := createUser(t, db, "comun", "user")
	_, adminToken := createUser(t, db, "jefa", "admin")

	resp := doReq(t, app, "GET", "/auth/users", userToken, nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("user status = %d, esperado 403", resp.StatusCode)
	}

	resp = doReq(t, app, "GET", "/auth/users", adminToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("admin status = %d", resp.StatusCode)
	}
	var body struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	decode(t, resp, &body)
	if len(body.Users) != 2 {
		t.Fatalf("users = %d, esperado 2", len(body.Users))
	}
}
