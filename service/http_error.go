package service

import (
	"errors"
	"net/http"

	"mygrid/dialect"
	"mygrid/domain"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// ContextKeyDialect is the echo context key under which handlers store the caller's dialect once it is known.
// Errors are then written in that dialect; W3C otherwise.
const ContextKeyDialect = "grid.dialect"

// RegisterErrorHandler register custom error handler.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), logger).Handler
}

// NewErrorCodeToStatusCodeMaps creates an error code to http status mapping.
func NewErrorCodeToStatusCodeMaps() map[string]int {
	var errorCodeToStatusCodeMaps = make(map[string]int)
	for _, code := range []string{
		dialect.CodeSessionNotCreated,
		dialect.CodeInvalidSessionID,
		dialect.CodeUnknownCommand,
		dialect.CodeUnknownMethod,
		dialect.CodeInvalidArgument,
		dialect.CodeUnknownError,
		dialect.CodeTimeout,
	} {
		errorCodeToStatusCodeMaps[code] = dialect.HTTPStatus(code)
	}
	errorCodeToStatusCodeMaps[ErrCodeNoSuchNode] = http.StatusNotFound
	errorCodeToStatusCodeMaps[ErrCodeUnauthorized] = http.StatusUnauthorized

	return errorCodeToStatusCodeMaps
}

// HTTPErrorHandler is an error handler.
type HTTPErrorHandler struct {
	errorCodeToHTTPStatusCodeMap map[string]int
	logger                       log.Logger
}

// NewHTTPErrorHandler creates a new instance of the HTTPErrorHandler.
func NewHTTPErrorHandler(errorCodeToStatusCodeMaps map[string]int, logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		errorCodeToHTTPStatusCodeMap: errorCodeToStatusCodeMaps,
		logger:                       logger,
	}
}

func (h *HTTPErrorHandler) getStatusCode(errorCode string) int {
	status, ok := h.errorCodeToHTTPStatusCodeMap[errorCode]
	if ok {
		return status
	}

	return http.StatusInternalServerError
}

// Handler handles error returned by echo Handlers. The body is a WebDriver error payload.
func (h *HTTPErrorHandler) Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	gridErr := ToGridError(err)
	if gridErr == nil {
		gridErr = NewUnknownError("an internal server error has occurred", err)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && ToGridError(err) == nil {
		code := dialect.CodeUnknownError
		switch he.Code {
		case http.StatusNotFound:
			code = dialect.CodeUnknownCommand
		case http.StatusMethodNotAllowed:
			code = dialect.CodeUnknownMethod
		case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
			code = dialect.CodeInvalidArgument
		}
		if he.Internal != nil {
			if herr, ok := he.Internal.(*echo.HTTPError); ok {
				he = herr
			}
			var requestError *openapi3filter.RequestError
			if errors.As(he.Internal, &requestError) {
				code = dialect.CodeInvalidArgument
			}
		}

		m, _ := he.Message.(string)
		gridErr = NewGridError(code, m, err)
	}
	statusCode := h.getStatusCode(gridErr.Code)

	logger := level.Warn(h.logger)
	if statusCode >= http.StatusInternalServerError {
		logger = level.Error(h.logger)
	}
	logger.Log(
		"msg", "HTTP request error",
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"err", err,
	)

	// Send response
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(statusCode)
		return
	}
	d, _ := c.Get(ContextKeyDialect).(domain.Dialect)
	if d == "" {
		d = domain.DialectW3C
	}
	body, legacyStatus := dialect.ErrorBody(d, gridErr.Code, gridErr.Message, c.Param("id"))
	if d == domain.DialectOSS {
		statusCode = legacyStatus
	}
	_ = c.Blob(statusCode, echo.MIMEApplicationJSONCharsetUTF8, body)
}
