package controller

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	pt_BR_translations "github.com/go-playground/validator/v10/translations/pt_BR"
	"golang.org/x/text/language"
)

var (
	uni           *ut.UniversalTranslator
	validatorOnce sync.Once
)

// setupValidator makes gin's validator report JSON field names and
// registers the English and Brazilian Portuguese error messages.
func setupValidator() {
	validatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_en := en.New()
		uni = ut.New(_en, _en, pt_BR.New())
		enTrans, _ := uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, enTrans)
		ptTrans, _ := uni.GetTranslator("pt_BR")
		_ = pt_BR_translations.RegisterDefaultTranslations(v, ptTrans)
	})
}

func translatorFor(lang language.Tag) ut.Translator {
	if uni == nil {
		return nil
	}
	locale := "en"
	if base, _ := lang.Base(); base.String() == "pt" {
		locale = "pt_BR"
	}
	trans, _ := uni.GetTranslator(locale)
	return trans
}

// translateValidation maps each violated field to its message in lang, or
// returns nil if err is not a validation error.
func translateValidation(err error, lang language.Tag) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	trans := translatorFor(lang)
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if trans != nil {
			fields[fe.Field()] = fe.Translate(trans)
		} else {
			fields[fe.Field()] = fe.Error()
		}
	}
	return fields
}

// bodySchemas lists the routes that take a JSON body and the request type
// it decodes into.
var bodySchemas = map[middleware.Route]func() any{
	{Method: http.MethodPost, Path: "/api/register"}:       func() any { return &entity.RegisterRequest{} },
	{Method: http.MethodPost, Path: "/api/login"}:          func() any { return &entity.LoginRequest{} },
	{Method: http.MethodPost, Path: "/api/question"}:       func() any { return &entity.QuestionRequest{} },
	{Method: http.MethodPost, Path: "/api/feedback"}:       func() any { return &entity.FeedbackRequest{} },
	{Method: http.MethodPost, Path: "/api/users"}:          func() any { return &entity.CreateUserRequest{} },
	{Method: http.MethodPost, Path: "/api/suggestions"}:    func() any { return &entity.SuggestionRequest{} },
	{Method: http.MethodPut, Path: "/api/suggestions/:id"}: func() any { return &entity.SuggestionRequest{} },
}

const boundBodyKey = "BOUND_BODY"

// ValidateBody decodes and validates the JSON body of the routes in
// bodySchemas. It runs before the session is resolved and access is
// checked, so a malformed body is always answered with 400.
func ValidateBody() gin.HandlerFunc {
	setupValidator()
	return func(c *gin.Context) {
		newBody, ok := bodySchemas[middleware.Route{Method: c.Request.Method, Path: c.FullPath()}]
		if !ok {
			c.Next()
			return
		}
		obj := newBody()
		if !bindJSON(c, obj) {
			return
		}
		c.Set(boundBodyKey, obj)
		c.Next()
	}
}

// boundBody returns the body decoded by ValidateBody, binding it here when
// the middleware did not run.
func boundBody[T any](c *gin.Context) (*T, bool) {
	if v, ok := c.Get(boundBodyKey); ok {
		if body, ok := v.(*T); ok {
			return body, true
		}
	}
	body := new(T)
	if !bindJSON(c, body) {
		return nil, false
	}
	return body, true
}
