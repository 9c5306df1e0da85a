package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"flexapp/flex-api/internal/domain"
	"flexapp/flex-api/internal/llm"
	"flexapp/flex-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrInvalidRequest      = errors.New("invalid workout plan request")
	ErrUpstreamAuthFailed  = errors.New("generation service rejected our credentials")
	ErrGenerationUpstream  = errors.New("generation service is unavailable")
	ErrGenerationMalformed = errors.New("generation service returned a malformed plan")
	ErrPlanNotFound        = errors.New("workout plan not found")
	ErrPlanForbidden       = errors.New("workout plan belongs to another user")
)

// Request bounds. The prompt embeds every request field, so unbounded input
// would flow straight into the upstream call.
const (
	maxGoals          = 10
	maxListItems      = 20
	maxItemLength     = 200
	minSessionMinutes = 10
	maxSessionMinutes = 240
)

// Upstream retry policy: transient failures only, never credential or
// malformed-output failures.
const (
	maxGenerateAttempts = 3
	retryBackoff        = 500 * time.Millisecond
)

// PlannerService generates workout plans and mediates all access to stored
// plans through the owner check.
type PlannerService interface {
	Generate(ctx context.Context, req domain.PlanRequest, owner string) (*domain.WorkoutPlan, error)
	GetPlan(ctx context.Context, id, requester string) (*domain.WorkoutPlan, error)
	ListPlans(ctx context.Context, requester string) ([]domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, id, requester string) error
}

type plannerService struct {
	planRepo  repository.PlanRepository
	generator llm.Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewPlannerService creates a new PlannerService. The timeout bounds each
// individual upstream call.
func NewPlannerService(planRepo repository.PlanRepository, generator llm.Generator, timeout time.Duration, logger *zap.Logger) PlannerService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &plannerService{
		planRepo:  planRepo,
		generator: generator,
		timeout:   timeout,
		logger:    logger,
	}
}

// Generate validates the request, prompts the upstream model for a JSON
// plan, maps it into the domain model, and persists it under the owner.
func (s *plannerService) Generate(ctx context.Context, req domain.PlanRequest, owner string) (*domain.WorkoutPlan, error) {
	if owner == "" {
		return nil, errors.New("plan owner cannot be empty")
	}
	if err := validatePlanRequest(req); err != nil {
		return nil, err
	}

	prompt := buildPrompt(req)

	raw, err := s.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	plan, err := parseGeneratedPlan(raw)
	if err != nil {
		s.logger.Warn("discarding malformed generated plan", zap.Error(err))
		return nil, err
	}

	plan.ID = uuid.NewString()
	plan.Owner = owner
	plan.CreatedAt = time.Now().UTC()

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("workout plan generated",
		zap.String("plan_id", plan.ID),
		zap.String("owner", owner),
		zap.Int("workout_days", len(plan.WorkoutDays)),
	)
	return plan, nil
}

// generateWithRetry calls the upstream under a bounded timeout, retrying
// transient failures. Credential failures abort immediately.
func (s *plannerService) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		raw, err := s.generator.Generate(callCtx, prompt)
		cancel()

		if err == nil {
			return raw, nil
		}
		if errors.Is(err, llm.ErrUnauthorized) {
			s.logger.Error("upstream rejected API credentials", zap.Error(err))
			return "", ErrUpstreamAuthFailed
		}

		lastErr = err
		s.logger.Warn("upstream generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < maxGenerateAttempts {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrGenerationUpstream, ctx.Err())
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}
	}
	return "", fmt.Errorf("%w: %v", ErrGenerationUpstream, lastErr)
}

// GetPlan fetches a plan by ID. A plan owned by someone else yields
// ErrPlanForbidden, not ErrPlanNotFound; the 403/404 distinction leaks plan
// existence but matches the established API contract.
func (s *plannerService) GetPlan(ctx context.Context, id, requester string) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.Owner != requester {
		return nil, ErrPlanForbidden
	}
	return plan, nil
}

// ListPlans returns all plans owned by the requester, in store order.
func (s *plannerService) ListPlans(ctx context.Context, requester string) ([]domain.WorkoutPlan, error) {
	return s.planRepo.GetByOwner(ctx, requester)
}

// DeletePlan removes a plan after the same ownership check as GetPlan.
// Deleting an already-deleted plan yields ErrPlanNotFound.
func (s *plannerService) DeletePlan(ctx context.Context, id, requester string) error {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.Owner != requester {
		return ErrPlanForbidden
	}

	if err := s.planRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// validatePlanRequest rejects out-of-bounds input before any upstream call.
func validatePlanRequest(req domain.PlanRequest) error {
	if strings.TrimSpace(req.FitnessLevel) == "" {
		return fmt.Errorf("%w: fitness_level is required", ErrInvalidRequest)
	}
	if len(req.Goals) == 0 {
		return fmt.Errorf("%w: at least one goal is required", ErrInvalidRequest)
	}
	if len(req.Goals) > maxGoals {
		return fmt.Errorf("%w: at most %d goals are allowed", ErrInvalidRequest, maxGoals)
	}
	if req.WorkoutDaysPerWeek < 1 || req.WorkoutDaysPerWeek > 7 {
		return fmt.Errorf("%w: workout_days_per_week must be between 1 and 7", ErrInvalidRequest)
	}
	if req.TimePerSession < minSessionMinutes || req.TimePerSession > maxSessionMinutes {
		return fmt.Errorf("%w: time_per_session must be between %d and %d minutes",
			ErrInvalidRequest, minSessionMinutes, maxSessionMinutes)
	}

	lists := map[string][]string{
		"goals":               req.Goals,
		"available_equipment": req.AvailableEquipment,
		"preferences":         req.Preferences,
		"limitations":         req.Limitations,
	}
	for name, items := range lists {
		if len(items) > maxListItems {
			return fmt.Errorf("%w: %s has too many entries (max %d)", ErrInvalidRequest, name, maxListItems)
		}
		for _, item := range items {
			if strings.TrimSpace(item) == "" {
				return fmt.Errorf("%w: %s contains an empty entry", ErrInvalidRequest, name)
			}
			if len(item) > maxItemLength {
				return fmt.Errorf("%w: %s entry exceeds %d characters", ErrInvalidRequest, name, maxItemLength)
			}
		}
	}
	return nil
}

// buildPrompt renders the generation instruction, embedding every request
// field and spelling out the exact JSON shape the parser expects.
func buildPrompt(req domain.PlanRequest) string {
	return fmt.Sprintf(`You are an expert fitness trainer who creates detailed workout plans.

Create a detailed workout plan based on the following information:

Fitness Level: %s
Goals: %s
Available Equipment: %s
Workout Days Per Week: %d
Time Per Session: %d minutes
Preferences: %s
Limitations: %s

The workout plan should include:
1. A title and description
2. A list of workout days with specific exercises
3. For each exercise, include sets, reps, rest time, and muscle groups targeted

Return the response as a valid JSON object with the following structure:
{
    "title": "Title of the workout plan",
    "description": "Description of the workout plan",
    "fitness_level": "The fitness level",
    "goals": ["List", "of", "goals"],
    "workout_days": [
        {
            "day": "Day name (e.g., 'Day 1', 'Monday')",
            "focus": "Focus of this workout day",
            "exercises": [
                {
                    "name": "Exercise name",
                    "sets": number_of_sets,
                    "reps": "rep scheme (e.g., '10', '8-12')",
                    "rest_time": "rest time in seconds",
                    "description": "Brief description",
                    "equipment": ["Required", "equipment"],
                    "muscle_groups": ["Targeted", "muscle", "groups"],
                    "difficulty": "difficulty level",
                    "instructions": "How to perform the exercise",
                    "alternatives": ["Alternative", "exercises"]
                }
            ],
            "warm_up": "Warm-up routine",
            "cool_down": "Cool-down routine",
            "total_time": estimated_total_time_in_minutes
        }
    ],
    "notes": "Additional notes",
    "metadata": {
        "any": "additional metadata"
    }
}`,
		req.FitnessLevel,
		joinOrNone(req.Goals),
		joinOrNone(req.AvailableEquipment),
		req.WorkoutDaysPerWeek,
		req.TimePerSession,
		joinOrNone(req.Preferences),
		joinOrNone(req.Limitations),
	)
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
