package routes

import (
	"context"
	"errors"
	"log"
	"net/http"

	"validea/services"

	"github.com/gin-gonic/gin"
)

// Evaluator is satisfied by *services.EvaluationService.
type Evaluator interface {
	Evaluate(ctx context.Context, raw map[string]any) (services.EvaluationResult, error)
}

// EvaluateRouteHandler serves POST /evaluate.
func EvaluateRouteHandler(ev Evaluator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			// non-object bodies carry no fields; validation reports them
			body = nil
		}

		result, err := ev.Evaluate(c.Request.Context(), body)
		if err != nil {
			if errors.Is(err, services.ErrMissingRequiredFields) {
				c.JSON(http.StatusBadRequest, gin.H{"error": services.MsgMissingFields})
				return
			}
			log.Printf("AI evaluation error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": services.MsgUpstreamFailure})
			return
		}

		c.JSON(http.StatusOK, gin.H{"evaluation": result.Payload()})
	}
}

// HealthzRouteHandler serves GET /healthz.
func HealthzRouteHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
