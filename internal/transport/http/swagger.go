package http

import (
	"net/http"
	"os"
	"sync"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/yathrananda/admin-console/internal/util"
)

// RegisterSwagger serves the OpenAPI document at /swagger/doc.json, converted
// from YAML on first request, and the Swagger UI under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string) {
	var (
		once    sync.Once
		spec    []byte
		loadErr error
	)
	load := func() {
		data, err := os.ReadFile(specPath)
		if err != nil {
			loadErr = err
			return
		}
		spec, loadErr = yaml.YAMLToJSON(data)
	}

	e.GET("/swagger/doc.json", func(c echo.Context) error {
		once.Do(load)
		if loadErr != nil {
			c.Logger().Errorf("load swagger spec %s: %v", specPath, loadErr)
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load swagger spec"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, spec)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/swagger/doc.json")))
}
