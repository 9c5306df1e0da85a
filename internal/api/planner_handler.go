package api

import (
	"errors"
	"fmt"
	"net/http"

	"flexapp/flex-api/internal/domain"
	"flexapp/flex-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlannerHandler holds the planner service dependency.
type PlannerHandler struct {
	plannerService service.PlannerService
	logger         *zap.Logger
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(plannerService service.PlannerService, logger *zap.Logger) *PlannerHandler {
	return &PlannerHandler{plannerService: plannerService, logger: logger}
}

// GeneratePlanRequest mirrors domain.PlanRequest with binding tags for the
// fields a request cannot omit.
type GeneratePlanRequest struct {
	FitnessLevel       string   `json:"fitness_level" binding:"required"`
	Goals              []string `json:"goals" binding:"required,min=1"`
	AvailableEquipment []string `json:"available_equipment"`
	WorkoutDaysPerWeek int      `json:"workout_days_per_week" binding:"required,gt=0"`
	TimePerSession     int      `json:"time_per_session" binding:"required,gt=0"`
	Preferences        []string `json:"preferences"`
	Limitations        []string `json:"limitations"`
}

// GeneratePlanResponse wraps the plan with a human-readable message.
type GeneratePlanResponse struct {
	Plan    *domain.WorkoutPlan `json:"plan"`
	Message string              `json:"message,omitempty"`
}

// Generate creates a workout plan for the authenticated user.
// POST /api/ai-planner/generate
func (h *PlannerHandler) Generate(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.plannerService.Generate(c.Request.Context(), domain.PlanRequest{
		FitnessLevel:       req.FitnessLevel,
		Goals:              req.Goals,
		AvailableEquipment: req.AvailableEquipment,
		WorkoutDaysPerWeek: req.WorkoutDaysPerWeek,
		TimePerSession:     req.TimePerSession,
		Preferences:        req.Preferences,
		Limitations:        req.Limitations,
	}, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUpstreamAuthFailed):
			// Operator problem, not a user problem. Details stay in the log.
			h.logger.Error("generation credentials rejected", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Workout plan generation is misconfigured")
		case errors.Is(err, service.ErrGenerationUpstream), errors.Is(err, service.ErrGenerationMalformed):
			h.logger.Error("workout plan generation failed", zap.String("owner", username), zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Error generating workout plan")
		default:
			h.logger.Error("unexpected generation error", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Error generating workout plan")
		}
		return
	}

	c.JSON(http.StatusOK, GeneratePlanResponse{
		Plan:    plan,
		Message: "Workout plan generated successfully",
	})
}

// ListPlans returns all plans owned by the authenticated user.
// GET /api/ai-planner/plans
func (h *PlannerHandler) ListPlans(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	plans, err := h.plannerService.ListPlans(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("listing workout plans failed", zap.String("owner", username), zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, "Error retrieving workout plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}

// GetPlan returns a single plan if the authenticated user owns it.
// GET /api/ai-planner/plans/:id
func (h *PlannerHandler) GetPlan(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	plan, err := h.plannerService.GetPlan(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found")
		case errors.Is(err, service.ErrPlanForbidden):
			abortWithError(c, http.StatusForbidden, "You don't have permission to access this workout plan")
		default:
			h.logger.Error("fetching workout plan failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Error retrieving workout plan")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan if the authenticated user owns it.
// DELETE /api/ai-planner/plans/:id
func (h *PlannerHandler) DeletePlan(c *gin.Context) {
	username, err := getUsernameFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	err = h.plannerService.DeletePlan(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "Workout plan not found")
		case errors.Is(err, service.ErrPlanForbidden):
			abortWithError(c, http.StatusForbidden, "You don't have permission to delete this workout plan")
		default:
			h.logger.Error("deleting workout plan failed", zap.Error(err))
			abortWithError(c, http.StatusInternalServerError, "Error deleting workout plan")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
