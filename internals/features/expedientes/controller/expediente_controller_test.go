package controller_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"expedientes_backend/internals/configs"
	disposicionModel "expedientes_backend/internals/features/disposiciones/model"
	docenteModel "expedientes_backend/internals/features/docentes/model"
	escuelaModel "expedientes_backend/internals/features/escuelas/model"
	"expedientes_backend/internals/features/expedientes/model"
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
		&model.ExpedienteModel{},
		&model.ExpedienteDocente{},
		&model.ExpedienteEscuela{},
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

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()
	hash, err := authHelper.HashPassword("secreto123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := authModel.UserModel{
		Username:     "admin_expedientes",
		Email:        "admin_expedientes@test.local",
		PasswordHash: hash,
		Role:         "admin",
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("crear usuario: %v", err)
	}
	token, err := service.GenerateToken(u)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
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

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func seedDocente(t *testing.T, db *gorm.DB, nombre, apellido, dni string) docenteModel.DocenteModel {
	t.Helper()
	d := docenteModel.DocenteModel{Nombre: nombre, Apellido: apellido, DNI: dni}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed docente: %v", err)
	}
	return d
}

func seedEscuela(t *testing.T, db *gorm.DB, nombre string) escuelaModel.EscuelaModel {
	t.Helper()
	e := escuelaModel.EscuelaModel{Nombre: nombre}
	if err := db.Create(&e).Error; err != nil {
		t.Fatalf("seed escuela: %v", err)
	}
	return e
}

type expedienteResp struct {
	ID            uint   `json:"id"`
	Numero        string `json:"numero"`
	Asunto        string `json:"asunto"`
	FechaRecibido string `json:"fecha_recibido"`
	Estado        string `json:"estado"`
	DocenteID     *uint  `json:"docente_id"`
	EscuelaID     *uint  `json:"escuela_id"`
	Docentes      []struct {
		ID       uint   `json:"id"`
		Apellido string `json:"apellido"`
	} `json:"docentes"`
	Escuelas []struct {
		ID     uint   `json:"id"`
		Nombre string `json:"nombre"`
	} `json:"escuelas"`
}

func linkedDocenteIDs(e expedienteResp) []uint {
	out := make([]uint, 0, len(e.Docentes))
	for _, d := range e.Docentes {
		out = append(out, d.ID)
	}
	return out
}

func TestCrearExpedienteConAsociaciones(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	d1 := seedDocente(t, db, "Laura", "Ramirez", "30111222")
	d2 := seedDocente(t, db, "Hugo", "Sosa", "30111223")
	e1 := seedEscuela(t, db, "Escuela N° 12")

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-2024-001",
		"asunto":         "Solicitud de licencia",
		"fecha_recibido": "2024-03-05",
		"docentes":       []uint{d1.ID, d2.ID, d1.ID}, // duplicado a propósito
		"escuelas":       []uint{e1.ID},
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created expedienteResp
	decode(t, resp, &created)

	if created.Estado != "pendiente" {
		t.Fatalf("estado default = %q", created.Estado)
	}
	if created.FechaRecibido != "2024-03-05" {
		t.Fatalf("fecha_recibido = %q", created.FechaRecibido)
	}
	if len(created.Docentes) != 2 {
		t.Fatalf("docentes vinculados = %d, esperado 2 (sin duplicados)", len(created.Docentes))
	}
	if created.DocenteID == nil || *created.DocenteID != d1.ID {
		t.Fatalf("docente_id heredado debería ser el primero del arreglo")
	}
	if len(created.Escuelas) != 1 || created.EscuelaID == nil || *created.EscuelaID != e1.ID {
		t.Fatalf("escuelas vinculadas inesperadas: %+v", created)
	}

	resp = doReq(t, app, "GET", "/api/expedientes/"+itoa(created.ID), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
}

func TestActualizarReconciliaAsociaciones(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	d1 := seedDocente(t, db, "Laura", "Ramirez", "30111222")
	d2 := seedDocente(t, db, "Hugo", "Sosa", "30111223")

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-2024-002",
		"asunto":         "Reubicación",
		"fecha_recibido": "2024-04-01",
		"docentes":       []uint{d1.ID, d2.ID},
	})
	var exp expedienteResp
	decode(t, resp, &exp)
	if len(exp.Docentes) != 2 {
		t.Fatalf("estado inicial: %d docentes", len(exp.Docentes))
	}

	// Reemplazo parcial: queda solo d2
	resp = doReq(t, app, "PUT", "/api/expedientes/"+itoa(exp.ID), token, fiber.Map{
		"numero":         "EXP-2024-002",
		"asunto":         "Reubicación",
		"fecha_recibido": "2024-04-01",
		"docentes":       []uint{d2.ID},
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	var updated expedienteResp
	decode(t, resp, &updated)
	ids := linkedDocenteIDs(updated)
	if len(ids) != 1 || ids[0] != d2.ID {
		t.Fatalf("reemplazo parcial dejó %v", ids)
	}
	if updated.DocenteID == nil || *updated.DocenteID != d2.ID {
		t.Fatalf("docente_id heredado sin sincronizar: %v", updated.DocenteID)
	}

	// Arreglo ausente: se conservan las asociaciones
	resp = doReq(t, app, "PUT", "/api/expedientes/"+itoa(exp.ID), token, fiber.Map{
		"numero":         "EXP-2024-002",
		"asunto":         "Reubicación (sin cambios de vínculos)",
		"fecha_recibido": "2024-04-01",
	})
	decode(t, resp, &updated)
	if len(updated.Docentes) != 1 {
		t.Fatalf("arreglo ausente no debería tocar vínculos: %+v", updated.Docentes)
	}

	// Arreglo vacío: se quitan todas
	resp = doReq(t, app, "PUT", "/api/expedientes/"+itoa(exp.ID), token, fiber.Map{
		"numero":         "EXP-2024-002",
		"asunto":         "Reubicación",
		"fecha_recibido": "2024-04-01",
		"docentes":       []uint{},
	})
	decode(t, resp, &updated)
	if len(updated.Docentes) != 0 || updated.DocenteID != nil {
		t.Fatalf("arreglo vacío debería limpiar vínculos: %+v", updated)
	}

	var links int64
	db.Model(&model.ExpedienteDocente{}).Where("expediente_id = ?", exp.ID).Count(&links)
	if links != 0 {
		t.Fatalf("quedaron %d filas de vínculo", links)
	}
}

func TestCrearExpedienteSinFechaRecibido(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero": "EXP-SIN-FECHA",
		"asunto": "Falta la fecha de recepción",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	if body.Error != "Número, asunto y fecha de recepción son obligatorios" {
		t.Fatalf("mensaje = %q", body.Error)
	}

	var count int64
	db.Model(&model.ExpedienteModel{}).Count(&count)
	if count != 0 {
		t.Fatalf("se persistió un expediente sin fecha: %d filas", count)
	}

	// El PUT exige lo mismo
	resp = doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-CON-FECHA",
		"asunto":         "Completo",
		"fecha_recibido": "2024-04-01",
	})
	var exp expedienteResp
	decode(t, resp, &exp)

	resp = doReq(t, app, "PUT", "/api/expedientes/"+itoa(exp.ID), token, fiber.Map{
		"numero": "EXP-CON-FECHA",
		"asunto": "Completo",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("put sin fecha = %d, esperado 400", resp.StatusCode)
	}
}

func TestCrearConDocenteInexistente(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-2024-003",
		"asunto":         "Prueba",
		"fecha_recibido": "2024-04-01",
		"docentes":       []uint{9999},
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", resp.StatusCode)
	}
}

func TestBusquedaPorDocenteVinculado(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	d1 := seedDocente(t, db, "Laura", "Ramirez", "30111222")
	doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-A",
		"asunto":         "Licencia anual",
		"fecha_recibido": "2024-04-01",
		"docentes":       []uint{d1.ID},
	})
	doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-B",
		"asunto":         "Otro tema",
		"fecha_recibido": "2024-04-02",
	})

	var list struct {
		Data       []expedienteResp `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	resp := doReq(t, app, "GET", "/api/expedientes?q=ramirez", token, nil)
	decode(t, resp, &list)
	if len(list.Data) != 1 || list.Data[0].Numero != "EXP-A" {
		t.Fatalf("búsqueda por apellido vinculado: %+v", list.Data)
	}
	if list.Pagination.Total != 1 {
		t.Fatalf("total = %d", list.Pagination.Total)
	}

	// Por número también
	resp = doReq(t, app, "GET", "/api/expedientes?q=exp-b", token, nil)
	decode(t, resp, &list)
	if len(list.Data) != 1 || list.Data[0].Numero != "EXP-B" {
		t.Fatalf("búsqueda por número: %+v", list.Data)
	}
}

func TestSubRecursosDocentes(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	d1 := seedDocente(t, db, "Laura", "Ramirez", "30111222")

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-SUB",
		"asunto":         "Vinculación manual",
		"fecha_recibido": "2024-04-01",
	})
	var exp expedienteResp
	decode(t, resp, &exp)

	resp = doReq(t, app, "POST", "/api/expedientes/"+itoa(exp.ID)+"/docentes", token, fiber.Map{
		"docenteId": d1.ID,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("vincular status = %d", resp.StatusCode)
	}

	// Vincular dos veces no duplica
	resp = doReq(t, app, "POST", "/api/expedientes/"+itoa(exp.ID)+"/docentes", token, fiber.Map{
		"docenteId": d1.ID,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("re-vincular status = %d", resp.StatusCode)
	}

	var refs []struct {
		ID uint `json:"id"`
	}
	resp = doReq(t, app, "GET", "/api/expedientes/"+itoa(exp.ID)+"/docentes", token, nil)
	decode(t, resp, &refs)
	if len(refs) != 1 || refs[0].ID != d1.ID {
		t.Fatalf("docentes del expediente: %+v", refs)
	}

	resp = doReq(t, app, "DELETE", "/api/expedientes/"+itoa(exp.ID)+"/docentes/"+itoa(d1.ID), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("desvincular status = %d", resp.StatusCode)
	}
	resp = doReq(t, app, "DELETE", "/api/expedientes/"+itoa(exp.ID)+"/docentes/"+itoa(d1.ID), token, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("re-desvincular status = %d, esperado 404", resp.StatusCode)
	}
}

// Una falla de persistencia al verificar el docente no debe disfrazarse
// de 404: tiene que salir como 500 con detalle.
func TestVincularDocenteFallaDePersistencia(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-FALLA",
		"asunto":         "Vínculo con base rota",
		"fecha_recibido": "2024-04-01",
	})
	var exp expedienteResp
	decode(t, resp, &exp)

	if err := db.Exec("DROP TABLE docentes").Error; err != nil {
		t.Fatalf("drop: %v", err)
	}

	resp = doReq(t, app, "POST", "/api/expedientes/"+itoa(exp.ID)+"/docentes", token, fiber.Map{
		"docenteId": 1,
	})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, esperado 500", resp.StatusCode)
	}
	var body struct {
		Error   string `json:"error"`
		Detalle string `json:"detalle"`
	}
	decode(t, resp, &body)
	if body.Error != "Error al vincular el docente" || body.Detalle == "" {
		t.Fatalf("respuesta inesperada: %+v", body)
	}
}

func TestEliminarExpedienteLimpiaVinculos(t *testing.T) {
	app, db := newTestApp(t)
	token := adminToken(t, db)

	d1 := seedDocente(t, db, "Laura", "Ramirez", "30111222")
	e1 := seedEscuela(t, db, "Escuela N° 4")

	resp := doReq(t, app, "POST", "/api/expedientes", token, fiber.Map{
		"numero":         "EXP-DEL",
		"asunto":         "A eliminar",
		"fecha_recibido": "2024-04-01",
		"docentes":       []uint{d1.ID},
		"escuelas":       []uint{e1.ID},
	})
	var exp expedienteResp
	decode(t, resp, &exp)

	resp = doReq(t, app, "DELETE", "/api/expedientes/"+itoa(exp.ID), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp = doReq(t, app, "GET", "/api/expedientes/"+itoa(exp.ID), token, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get tras delete = %d", resp.StatusCode)
	}

	var dLinks, eLinks int64
	db.Model(&model.ExpedienteDocente{}).Where("expediente_id = ?", exp.ID).Count(&dLinks)
	db.Model(&model.ExpedienteEscuela{}).Where("expediente_id = ?", exp.ID).Count(&eLinks)
	if dLinks != 0 || eLinks != 0 {
		t.Fatalf("vínculos huérfanos: docentes=%d escuelas=%d", dLinks, eLinks)
	}

	// El docente y la escuela siguen existiendo
	var d docenteModel.DocenteModel
	if err := db.First(&d, "id = ?", d1.ID).Error; err != nil {
		t.Fatalf("el docente no debería borrarse: %v", err)
	}
}
