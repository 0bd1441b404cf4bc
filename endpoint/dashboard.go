package endpoint

import (
	"strconv"
	"time"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/report"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
)

// The dashboard recomputes every projection from the current data on each
// request; at practice scale (tens of records) there is nothing to cache.

// DashboardStats godoc
// @Summary      Dashboard statistics
// @Description  Doctor totals grouped by derived subscription status
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=report.DashboardStats} "Stats computed"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /dashboard/stats [get]
func DashboardStats(c *gin.Context) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	doctors, err := dir.ListAccounts(model.KindDoctor)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to compute stats", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Stats computed",
		Data: report.Stats(doctors, time.Now()),
	})
}

func allVisits(c *gin.Context) ([]model.Visit, bool) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return nil, false
	}

	var visits []model.Visit
	if err := db.Order("id ASC").Find(&visits).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve visits", Err: err})
		return nil, false
	}
	return visits, true
}

func limitParam(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return limit
}

// TopDrugs godoc
// @Summary      Most administered drugs
// @Description  Frequency ranking of drug names across all visits; equal counts keep first-occurrence order
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Ranking size (default 5)"
// @Success      200 {object} util.APIResponse{data=object} "Ranking computed"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /dashboard/top-drugs [get]
func TopDrugs(c *gin.Context) {
	visits, ok := allVisits(c)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Ranking computed",
		Data: map[string]interface{}{"items": report.TopDrugs(visits, limitParam(c))},
	})
}

// TopTests godoc
// @Summary      Most ordered lab tests
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Ranking size (default 5)"
// @Success      200 {object} util.APIResponse{data=object} "Ranking computed"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /dashboard/top-tests [get]
func TopTests(c *gin.Context) {
	visits, ok := allVisits(c)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Ranking computed",
		Data: map[string]interface{}{"items": report.TopTests(visits, limitParam(c))},
	})
}

// RecentVisits godoc
// @Summary      Most recent visits
// @Description  Latest visits across all patients, newest first
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of visits (default 5)"
// @Success      200 {object} util.APIResponse{data=object} "Recent visits"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /dashboard/recent-visits [get]
func RecentVisits(c *gin.Context) {
	visits, ok := allVisits(c)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Recent visits",
		Data: map[string]interface{}{"visits": report.RecentVisits(visits, limitParam(c))},
	})
}
