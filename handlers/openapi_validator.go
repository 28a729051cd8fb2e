package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

// OpenAPIValidator returns middleware checking requests against the operations of the given OpenAPI document.
// Requests the document does not describe (session commands) pass through untouched. Validation failures
// become echo 400 errors carrying the *openapi3filter.RequestError as internal error.
func OpenAPIValidator(document []byte) (echo.MiddlewareFunc, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ectx echo.Context) error {
			if err := validateRequest(router, ectx.Request()); err != nil {
				return err
			}
			return next(ectx)
		}
	}, nil
}

func validateRequest(router routers.Router, req *http.Request) error {
	lookup := req.Clone(req.Context())
	lookup.URL.Path = stripLegacyPrefix(req.URL.Path)
	lookup.URL.RawPath = ""
	route, pathParams, err := router.FindRoute(lookup)
	if err != nil {
		return nil
	}

	body, err := readBody(req)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	lookup.Body = io.NopCloser(bytes.NewReader(body))
	if len(body) > 0 && lookup.Header.Get(echo.HeaderContentType) == "" {
		lookup.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    lookup,
		PathParams: pathParams,
		Route:      route,
		Options:    &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc},
	}
	if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
