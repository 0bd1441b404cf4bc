package endpoint

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestVisit(t *testing.T, db *gorm.DB, patientID uint, date string, drugs, tests string) model.Visit {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	visit := model.Visit{
		PatientID: patientID,
		Date:      parsed,
		Drugs:     drugs,
		Tests:     tests,
	}
	require.NoError(t, db.Create(&visit).Error)
	return visit
}

func TestAddVisit(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemory())
	patient := createTestPatient(t, db, "Ahmed Al-Sayed", "0501112222")

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/patient/%d/visit", patient.ID),
		Token:  testAuthHeader(t),
		Body: map[string]interface{}{
			"date":        "2025-04-18",
			"drugs":       []string{"Paracetamol 500 mg"},
			"tests":       []string{"CBC"},
			"notes":       "Seasonal flu symptoms",
			"outcome":     "Recovered",
			"temperature": 38.2,
			"heart_rate":  88,
			"systolic":    122,
			"diastolic":   80,
		},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var saved model.Visit
	require.NoError(t, db.Where("patient_id = ?", patient.ID).First(&saved).Error)
	assert.Equal(t, "Paracetamol 500 mg", saved.Drugs)
	assert.Equal(t, "CBC", saved.Tests)
	assert.Equal(t, 88, saved.HeartRate)
	assert.Equal(t, "2025-04-18", saved.Date.Format("2006-01-02"))
}

func TestAddVisitMissingDateFallsBackToToday(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemory())
	patient := createTestPatient(t, db, "Ahmed Al-Sayed", "0501112222")

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/patient/%d/visit", patient.ID),
		Token:  testAuthHeader(t),
		Body:   map[string]interface{}{"notes": "walk-in"},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)

	var saved model.Visit
	require.NoError(t, db.Where("patient_id = ?", patient.ID).First(&saved).Error)
	assert.Equal(t, time.Now().Format("2006-01-02"), saved.Date.Format("2006-01-02"))
}

func TestAddVisitUnknownPatient(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemory())

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodPost,
		Path:   "/patient/9999/visit",
		Token:  testAuthHeader(t),
		Body:   map[string]interface{}{"date": "2025-04-18"},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestListVisitsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemory())
	patient := createTestPatient(t, db, "Zainab Hussein", "0503334444")
	createTestVisit(t, db, patient.ID, "2025-03-28", "Metformin 850 mg", "HbA1c")
	createTestVisit(t, db, patient.ID, "2025-04-02", "Atorvastatin 20 mg", "Lipid Panel")

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/patient/%d/visit", patient.ID),
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	assert.Equal(t, float64(2), data["total"])

	visits, ok := data["visits"].([]interface{})
	require.True(t, ok)
	require.Len(t, visits, 2)

	first, ok := visits[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Atorvastatin 20 mg", first["drugs"])
}

func TestListVisitsExcludesOtherPatients(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemory())
	ahmed := createTestPatient(t, db, "Ahmed Al-Sayed", "0501112222")
	zainab := createTestPatient(t, db, "Zainab Hussein", "0503334444")
	createTestVisit(t, db, ahmed.ID, "2025-04-18", "Paracetamol 500 mg", "CBC")
	createTestVisit(t, db, zainab.ID, "2025-03-28", "Metformin 850 mg", "HbA1c")

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/patient/%d/visit", ahmed.ID),
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	assert.Equal(t, float64(1), data["total"])
}
