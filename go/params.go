package ventasveserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// actorHeader names the caller recorded in the order audit trail.
const actorHeader = "X-Actor-ID"

// idempotencyHeader makes checkout retries safe.
const idempotencyHeader = "Idempotency-Key"

// bindUUIDParam reads a UUID path parameter. Malformed ids never reach the services.
func bindUUIDParam(c *gin.Context, name string) (string, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// bindStatusQuery reads repeated ?status= values, also accepting a comma separated list.
func bindStatusQuery(c *gin.Context) ([]string, error) {
	var raw []string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &raw); err != nil {
		return nil, err
	}
	statuses := make([]string, 0, len(raw))
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				statuses = append(statuses, strings.ToUpper(part))
			}
		}
	}
	return statuses, nil
}

func actor(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(actorHeader))
}

// HealthAPI reports process liveness.
type HealthAPI struct{}

// Get /healthz
func (HealthAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
