package handlers

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/field-report-api/internal/errors"
)

// idParam parses a numeric path parameter, answering 400 when it is not one.
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequestWithDetails(c, "Invalid "+name, gin.H{"field": name})
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses a numeric query parameter that may be absent.
func optionalIDQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid "+name, gin.H{"field": name})
		return nil, false
	}
	return &id, true
}

// bindJSON decodes the request body into req. A body that fails decoding or
// validation is answered with 400 naming the offending JSON field.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		fe := validationErrs[0]
		field := jsonFieldName(req, fe)
		apierrors.BadRequestWithDetails(c, "Invalid "+field, gin.H{"field": field, "rule": fe.Tag()})
	case errors.As(err, &typeErr) && typeErr.Field != "":
		apierrors.BadRequestWithDetails(c, "Invalid "+typeErr.Field, gin.H{"field": typeErr.Field})
	default:
		apierrors.BadRequest(c, "Invalid request body")
	}
	return false
}

// jsonFieldName maps a failed struct field back to its JSON key.
func jsonFieldName(req any, fe validator.FieldError) string {
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if name, _, _ := strings.Cut(sf.Tag.Get("json"), ","); name != "" && name != "-" {
				return name
			}
		}
	}
	return fe.Field()
}
