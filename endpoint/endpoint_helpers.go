package endpoint

import (
	"fmt"

	"github.com/ariqfadlan/medpractice/middleware"
	"github.com/ariqfadlan/medpractice/store"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

func getDirectoryOrRespond(c *gin.Context) (store.Directory, bool) {
	dir := middleware.GetDirectory(c)
	if dir == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Account directory not available", Err: fmt.Errorf("directory is nil")})
		return nil, false
	}
	return dir, true
}
