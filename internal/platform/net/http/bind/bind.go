// Package bind decodes request input into a DTO and validates it with
// go-playground/validator tags; messages come from its english translations
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "fleetdash/internal/platform/errors"
	"fleetdash/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// request bodies are a handful of date strings
const maxBody = 64 << 10

var deviceIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,63}$`)

type checker struct {
	v     *validator.Validate
	trans ut.Translator
}

var loadChecker = sync.OnceValue(func() *checker {
	loc := en.New()
	trans, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	// messages and fields use the json names clients send
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterValidation("device_id", func(fl validator.FieldLevel) bool {
		return deviceIDRe.MatchString(fl.Field().String())
	})

	c := &checker{v: v, trans: trans}
	c.message("max", "{0} must be at most {1} characters")
	c.message("device_id", "{0} must be a device id of letters, digits, '.', '_', ':' or '-'")
	return c
})

func (c *checker) message(tag, text string) {
	_ = c.v.RegisterTranslation(tag, c.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// ParseJSON decodes the request body into T and validates it
// an empty body, unknown fields and trailing data are all rejected
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero T
	defer func() { _ = r.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	switch {
	case err != nil:
		return zero, perr.JSONErrf("read body: %v", err)
	case len(raw) > maxBody:
		return zero, perr.JSONErrf("body exceeds %d bytes", maxBody)
	case len(bytes.TrimSpace(raw)) == 0:
		return zero, perr.JSONErrf("empty body")
	}
	return decode[T](raw)
}

// ParseQuery binds the query string into T through its json tags
// every value binds as a string and the first of a repeated key wins
func ParseQuery[T any](r *http.Request) (T, error) {
	q := r.URL.Query()
	flat := make(map[string]string, len(q))
	for k, vs := range q {
		flat[k] = vs[0]
	}
	raw, _ := json.Marshal(flat)
	return decode[T](raw)
}

func decode[T any](raw []byte) (T, error) {
	var zero, dst T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	c := loadChecker()
	err := c.v.Struct(dst)
	if err == nil {
		return dst, nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return zero, perr.WithField(perr.New(perr.ErrorCodeValidation, fe.Translate(c.trans)), fe.Field())
	}
	// only non struct targets get here
	logger.Get().Error().Err(err).Msg("validator misuse")
	return zero, perr.JSONErrf("validation error")
}
