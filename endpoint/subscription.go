package endpoint

import (
	"fmt"
	"time"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/report"
	"github.com/ariqfadlan/medpractice/store"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
)

// subscriptionRow is one dashboard row of the subscription table.
type subscriptionRow struct {
	ID           string                  `json:"id"`
	DoctorName   string                  `json:"doctor_name"`
	Email        string                  `json:"email"`
	StartDate    string                  `json:"start_date,omitempty"`
	EndDate      string                  `json:"end_date,omitempty"`
	Subscription report.SubscriptionInfo `json:"subscription"`
}

// ListSubscriptions godoc
// @Summary      List doctor subscriptions
// @Description  One row per doctor with the derived subscription state
// @Tags         Subscription
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=object} "Subscriptions retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /subscription [get]
func ListSubscriptions(c *gin.Context) {
	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	doctors, err := dir.ListAccounts(model.KindDoctor)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to retrieve subscriptions", Err: err})
		return
	}

	today := time.Now()
	rows := make([]subscriptionRow, 0, len(doctors))
	for _, doc := range doctors {
		row := subscriptionRow{
			ID:           doc.ID,
			DoctorName:   doc.Name,
			Email:        doc.Email,
			Subscription: report.Subscription(doc.SubscriptionStart, doc.SubscriptionEnd, today),
		}
		if doc.SubscriptionStart != nil {
			row.StartDate = doc.SubscriptionStart.Format("2006-01-02")
		}
		if doc.SubscriptionEnd != nil {
			row.EndDate = doc.SubscriptionEnd.Format("2006-01-02")
		}
		rows = append(rows, row)
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Subscriptions retrieved",
		Data: map[string]interface{}{"total": len(rows), "subscriptions": rows},
	})
}

type updateSubscriptionRequest struct {
	StartDate string `json:"start_date" example:"2025-01-01"`
	EndDate   string `json:"end_date" example:"2026-01-01"`
}

// UpdateSubscription godoc
// @Summary      Update a doctor's subscription window
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Doctor ID"
// @Param        request body updateSubscriptionRequest true "Subscription window"
// @Success      200 {object} util.APIResponse "Subscription updated"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      404 {object} util.APIResponse "Doctor not found"
// @Router       /subscription/{id} [patch]
func UpdateSubscription(c *gin.Context) {
	var req updateSubscriptionRequest
	if !bindJSONOrRespond(c, &req, "Invalid request body") {
		return
	}

	dir, ok := getDirectoryOrRespond(c)
	if !ok {
		return
	}

	doctor, err := dir.GetAccount(c.Param("id"))
	if err != nil || doctor.Kind != model.KindDoctor {
		if err == nil {
			err = store.ErrNotFound
		}
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: "Doctor not found", Err: err})
		return
	}

	if req.StartDate != "" {
		if parsed := parseDate(req.StartDate); parsed != nil {
			doctor.SubscriptionStart = parsed
		} else {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid start_date", Err: fmt.Errorf("expected YYYY-MM-DD")})
			return
		}
	}
	if req.EndDate != "" {
		if parsed := parseDate(req.EndDate); parsed != nil {
			doctor.SubscriptionEnd = parsed
		} else {
			util.CallUserError(c, util.APIErrorParams{Msg: "Invalid end_date", Err: fmt.Errorf("expected YYYY-MM-DD")})
			return
		}
	}

	if err := dir.UpdateAccount(doctor); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update subscription", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Subscription updated",
		Data: viewOf(doctor, time.Now()),
	})
}
