package endpoint

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ariqfadlan/medpractice/config"
	"github.com/ariqfadlan/medpractice/middleware"
	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/store"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB wires the same database entry point main uses, which in the
// test environment resolves to a shared in-memory sqlite database. Tables
// are wiped so each test starts clean.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	t.Setenv("APPENV", "test")
	config.ResetConfigForTest()
	config.SetRedisClientForTest(nil)
	util.SetJWTSecret("endpoint-test-secret")

	db, err := config.ConnectDatabase()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Patient{},
		&model.Visit{},
		&model.Account{},
		&model.User{},
		&model.SecurityLog{},
	))

	for _, table := range []string{"visits", "patients", "accounts", "users", "security_logs"} {
		db.Exec("DELETE FROM " + table)
	}
	return db
}

// newTestRouter builds a router with the full middleware chain and every
// route registered, mirroring main.
func newTestRouter(db *gorm.DB, dir store.Directory) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.DirectoryMiddleware(dir))

	router.POST("/login", Login)

	authed := router.Group("/", middleware.AuthRequired())
	{
		authed.POST("/logout", Logout)
		authed.GET("/session", CheckSession)

		authed.GET("/patient", ListPatients)
		authed.POST("/patient", CreatePatient)
		authed.GET("/patient/:id", GetPatientInfo)
		authed.PATCH("/patient/:id", UpdatePatient)
		authed.DELETE("/patient/:id", DeletePatient)
		authed.GET("/patient/:id/visit", ListVisits)
		authed.POST("/patient/:id/visit", AddVisit)

		authed.GET("/doctor", ListDoctors)
		authed.POST("/doctor", CreateDoctor)
		authed.GET("/doctor/:id", GetDoctor)
		authed.PATCH("/doctor/:id", UpdateDoctor)
		authed.POST("/doctor/:id/reset-password", ResetDoctorPassword)
		authed.POST("/doctor/:id/toggle-status", ToggleDoctorStatus)

		authed.GET("/lab", ListLabs)
		authed.GET("/lab/:id", GetLab)
		authed.PATCH("/lab/:id", UpdateLab)

		authed.GET("/pharmacy", ListPharmacies)
		authed.GET("/pharmacy/:id", GetPharmacy)
		authed.PATCH("/pharmacy/:id", UpdatePharmacy)

		authed.GET("/subscription", ListSubscriptions)
		authed.PATCH("/subscription/:id", UpdateSubscription)

		authed.GET("/dashboard/stats", DashboardStats)
		authed.GET("/dashboard/top-drugs", TopDrugs)
		authed.GET("/dashboard/top-tests", TopTests)
		authed.GET("/dashboard/recent-visits", RecentVisits)

		authed.GET("/export/:type", ExportData)
	}

	return router
}

// testAuthHeader issues a session token for a fixture admin. With no Redis
// client configured in tests, session liveness falls back to JWT expiry.
func testAuthHeader(t *testing.T) string {
	t.Helper()
	token, err := util.GenerateSessionToken(1, "admin@clinic.example")
	require.NoError(t, err)
	return "Bearer " + token
}

type requestParams struct {
	Method string
	Path   string
	Body   interface{}
	Token  string
}

func doRequest(t *testing.T, router *gin.Engine, p requestParams) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if p.Body != nil {
		payload, err := json.Marshal(p.Body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(p.Method, p.Path, reader)
	req.Header.Set("Content-Type", "application/json")
	if p.Token != "" {
		req.Header.Set("Authorization", p.Token)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) util.APIResponse {
	t.Helper()
	var resp util.APIResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return resp
}

func dataMap(t *testing.T, resp util.APIResponse) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object")
	return data
}

func createTestAdmin(t *testing.T, db *gorm.DB, email, password string) model.User {
	t.Helper()
	user := model.User{
		Name:     "Test Admin",
		Email:    email,
		Password: util.HashPassword(password),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
