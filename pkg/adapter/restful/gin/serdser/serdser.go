// Package serdser provides the common (de)serialization helpers for
// the resource packages: request binding with a field-error map
// convention and serialization of the core layer errors into response
// status codes. A cerr.NotFound error becomes an empty-bodied 404
// response; other cerr kinds report their detail with the carried
// status code and any remaining error is a plain 500.
package serdser

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/momeni/vehweb/pkg/core/cerr"
	"github.com/momeni/vehweb/pkg/core/log"
)

func Bind(c *gin.Context, req any) bool {
	switch err := c.ShouldBindJSON(req).(type) {
	case *validator.InvalidValidationError:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": err.Error(),
		})
	case validator.ValidationErrors:
		var nameToErrs map[string][]string
		for _, ferr := range err {
			AddErr(&nameToErrs, ferr.Field(), ferr.Error())
		}
		c.JSON(http.StatusBadRequest, nameToErrs)
	default:
		if err == nil {
			return true
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
	}
	return false
}

func AddErr(errs *map[string][]string, name string, msgs ...string) {
	if (*errs) == nil {
		*errs = make(map[string][]string)
	}
	if elist, ok := (*errs)[name]; !ok {
		(*errs)[name] = msgs
	} else {
		(*errs)[name] = append(elist, msgs...)
	}
}

func SerErr(c *gin.Context, err error) {
	var ce *cerr.Error
	if errors.As(err, &ce) {
		if ce.HTTPStatusCode == http.StatusNotFound {
			// not-found responses carry no body
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(ce.HTTPStatusCode, gin.H{
			"detail": ce.Err.Error(),
		})
		return
	}
	log.Error(c, "request handling failed", log.Err("error", err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"detail": err.Error(),
	})
}
