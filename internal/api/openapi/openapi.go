// Package openapi validates incoming API requests against the embedded OpenAPI document.
package openapi

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"storefront-api/internal/transport/dto"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gin-gonic/gin"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"
	"go.uber.org/zap"
)

//go:embed openapi.yaml
var document []byte

// Load parses and validates the embedded document. Servers are dropped so
// paths match regardless of the host the API is served on.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	doc.Servers = nil
	return doc, nil
}

// RequestValidator rejects requests that do not match any documented
// operation or whose parameters and bodies do not fit the document.
func RequestValidator(doc *openapi3.T, logger *zap.Logger) gin.HandlerFunc {
	return ginmiddleware.OapiRequestValidatorWithOptions(doc, &ginmiddleware.Options{
		ErrorHandler: func(c *gin.Context, message string, statusCode int) {
			status := statusCode
			switch {
			case strings.Contains(message, "no matching operation was found"):
				status = http.StatusNotFound
			case strings.Contains(message, "method not allowed"):
				status = http.StatusMethodNotAllowed
			}
			logger.Debug("Request rejected by OpenAPI validation",
				zap.String("path", c.Request.URL.Path), zap.Int("status", status), zap.String("reason", message))
			c.AbortWithStatusJSON(status, dto.ErrorResponse{
				Message: "Your query could not be completed",
				Errors:  []string{message},
			})
		},
		Options: openapi3filter.Options{
			AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		},
	})
}
