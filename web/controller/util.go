package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/locale"
	"github.com/ortosupport/course-assistant/web/middleware"

	"github.com/gin-gonic/gin"
)

// getRemoteIp returns the client address. Forwarding headers count only
// when sent by a trusted proxy.
func getRemoteIp(c *gin.Context) string {
	return c.ClientIP()
}

// statusOf maps an error kind to its HTTP status.
func statusOf(kind common.Kind) int {
	switch kind {
	case common.KindValidation, common.KindConflict, common.KindSelfDelete:
		return http.StatusBadRequest
	case common.KindUnauthenticated:
		return http.StatusUnauthorized
	case common.KindForbidden:
		return http.StatusForbidden
	case common.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// jsonError logs err in full and sends its client-safe message.
func jsonError(c *gin.Context, msg string, err error) {
	status := statusOf(common.KindOf(err))
	if status >= http.StatusInternalServerError {
		logger.Errorf("[%s] %s: %v", middleware.RequestID(c), msg, err)
	} else {
		logger.Debugf("[%s] %s: %v", middleware.RequestID(c), msg, err)
	}
	c.JSON(status, entity.ErrorResponse{Message: locale.T(c, common.Message(err))})
}

// jsonMsg sends a success body.
func jsonMsg(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, entity.Msg{Success: true, Msg: msg})
}

// jsonObj sends obj with status 200.
func jsonObj(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, obj)
}

// bindJSON decodes and validates the body into obj. On failure it aborts
// with 400 listing every violation and returns false.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	resp := entity.ErrorResponse{Message: locale.T(c, "invalid input")}
	if fields := translateValidation(err, locale.Lang(c)); fields != nil {
		resp.Errors = fields
	} else {
		resp.Message = locale.T(c, "invalid request body")
		logger.Debug("bad request body:", err)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
	return false
}

var errInvalidID = errors.New("id must be a positive integer")

// paramID parses the :id path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, entity.ErrorResponse{
			Message: locale.T(c, "invalid input"),
			Errors:  map[string]string{"id": locale.T(c, errInvalidID.Error())},
		})
		return 0, false
	}
	return id, true
}
