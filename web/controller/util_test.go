package controller

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/web/locale"
	"github.com/ortosupport/course-assistant/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		kind common.Kind
		want int
	}{
		{common.KindValidation, http.StatusBadRequest},
		{common.KindConflict, http.StatusBadRequest},
		{common.KindSelfDelete, http.StatusBadRequest},
		{common.KindUnauthenticated, http.StatusUnauthorized},
		{common.KindForbidden, http.StatusForbidden},
		{common.KindNotFound, http.StatusNotFound},
		{common.KindUnavailable, http.StatusInternalServerError},
		{common.KindInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusOf(tc.kind), tc.kind.String())
	}
}

func TestJSONErrorAuthUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(locale.LocalizerMiddleware())
	r.POST("/login", func(c *gin.Context) {
		err := common.Wrap(common.KindUnavailable, service.ErrAuthUnavailable.Msg, errors.New("scrypt: bad params"))
		jsonError(c, "login failed", err)
	})

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"authentication unavailable"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Accept-Language", "pt-BR")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"autenticação indisponível"}`, w.Body.String())
}
