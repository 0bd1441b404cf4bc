package endpoint

import (
	"net/http"
	"testing"

	"github.com/ariqfadlan/medpractice/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedDashboardData loads the demo patients so the aggregate endpoints have
// visits to rank.
func seedDashboardData(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, store.SeedDemoPatients(db))
}

func TestDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemorySeeded())

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   "/dashboard/stats",
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	assert.Equal(t, float64(3), data["total_doctors"])
	assert.Equal(t, float64(1), data["active_subscriptions"])
	assert.Equal(t, float64(1), data["expiring_soon"])
	assert.Equal(t, float64(1), data["expired"])
}

func TestTopDrugs(t *testing.T) {
	db := setupTestDB(t)
	seedDashboardData(t, db)
	router := newTestRouter(db, store.NewMemorySeeded())

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   "/dashboard/top-drugs",
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 3)

	// every drug appears once, so first-seen order decides
	first, ok := items[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Paracetamol 500 mg", first["name"])
	assert.Equal(t, float64(1), first["count"])
}

func TestTopTestsHonorsLimit(t *testing.T) {
	db := setupTestDB(t)
	seedDashboardData(t, db)
	router := newTestRouter(db, store.NewMemorySeeded())

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   "/dashboard/top-tests?limit=2",
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestRecentVisitsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	seedDashboardData(t, db)
	router := newTestRouter(db, store.NewMemorySeeded())

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   "/dashboard/recent-visits",
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	visits, ok := data["visits"].([]interface{})
	require.True(t, ok)
	require.Len(t, visits, 3)

	first, ok := visits[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Paracetamol 500 mg", first["drugs"]) // 2025-04-18 visit

	second, ok := visits[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Atorvastatin 20 mg", second["drugs"]) // 2025-04-02 visit
}

func TestDashboardEmptyDatabase(t *testing.T) {
	db := setupTestDB(t)
	router := newTestRouter(db, store.NewMemory())

	recorder := doRequest(t, router, requestParams{
		Method: http.MethodGet,
		Path:   "/dashboard/top-drugs",
		Token:  testAuthHeader(t),
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	data := dataMap(t, decodeResponse(t, recorder))
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, items)
}
