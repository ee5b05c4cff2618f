package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"warehouse/internal/core/application/usecases/commands"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var apiDocument []byte

const requestTransitionOperation = "requestTransition"

var registerDocOnce sync.Once

// swaggerDoc hands the API document to swagger-ui as JSON.
type swaggerDoc struct{ json string }

func (d swaggerDoc) ReadDoc() string { return d.json }

// LoadAPIDocument parses and validates the embedded OpenAPI description of
// the station API.
func LoadAPIDocument(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(apiDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// publishDocument makes doc the one served under /swagger. swag keeps a
// process-wide registry, so only the first document is registered.
func publishDocument(doc *openapi3.T) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(data)})
	})
	return nil
}

// requestContract rejects requests whose path or query parameters or body
// envelope do not match the API document. Paths the document does not
// describe fall through to echo's own routing.
func (s *Server) requestContract(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				if errors.Is(err, routers.ErrPathNotFound) || errors.Is(err, routers.ErrMethodNotAllowed) {
					return next(c)
				}
				return respondBadRequest(c, "invalid request", err)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				if route.Operation != nil && route.Operation.OperationID == requestTransitionOperation {
					rejected := commands.TransitionRequest{TrackingCode: pathParams["code"]}
					s.handlers.RequestTransition.RecordRejectedRequest(req.Context(), rejected, invalidBody(err))
				}
				s.logger.WithFields(logrus.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
				}).WithError(err).Debug("request does not match api document")
				return respondContractViolation(c, err)
			}

			return next(c)
		}
	}, nil
}

// respondContractViolation names the offending parameter, or "body" when the
// payload itself was rejected.
func respondContractViolation(c echo.Context, err error) error {
	body := ErrorResponse{
		Code:    http.StatusBadRequest,
		Kind:    string(commands.FailureValidation),
		Message: "request does not match the api",
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Parameter != nil:
			body.Message = fmt.Sprintf("invalid %s parameter %q", reqErr.Parameter.In, reqErr.Parameter.Name)
			body.Fields = map[string]string{reqErr.Parameter.Name: reqErr.Parameter.In}
		case reqErr.RequestBody != nil:
			body.Message = "invalid request body"
			body.Fields = map[string]string{"body": "schema"}
		}
	}

	return c.JSON(http.StatusBadRequest, body)
}
