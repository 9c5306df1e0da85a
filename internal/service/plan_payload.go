package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"flexapp/flex-api/internal/domain"
)

// Wire structs for the generated JSON. The model mostly follows the shape
// the prompt asks for, but numbers sometimes arrive as strings ("45" or
// "45 minutes") and vice versa, so numeric fields use tolerant decoders.

type generatedPlan struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	FitnessLevel string                 `json:"fitness_level"`
	Goals        []string               `json:"goals"`
	WorkoutDays  []generatedDay         `json:"workout_days"`
	Notes        string                 `json:"notes"`
	Metadata     map[string]interface{} `json:"metadata"`
}

type generatedDay struct {
	Day       string              `json:"day"`
	Focus     string              `json:"focus"`
	Exercises []generatedExercise `json:"exercises"`
	WarmUp    string              `json:"warm_up"`
	CoolDown  string              `json:"cool_down"`
	TotalTime flexInt             `json:"total_time"`
}

type generatedExercise struct {
	Name         string     `json:"name"`
	Sets         flexInt    `json:"sets"`
	Reps         flexString `json:"reps"`
	RestTime     flexString `json:"rest_time"`
	Description  string     `json:"description"`
	Equipment    []string   `json:"equipment"`
	MuscleGroups []string   `json:"muscle_groups"`
	Difficulty   string     `json:"difficulty"`
	Instructions string     `json:"instructions"`
	Alternatives []string   `json:"alternatives"`
}

// flexInt decodes a JSON number, a numeric string, or a string with a
// trailing unit ("45 minutes") into an int.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		fields := strings.Fields(str)
		if len(fields) == 0 {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return fmt.Errorf("cannot parse %q as integer", str)
		}
		*f = flexInt(n)
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*f = flexInt(int(num))
	return nil
}

// flexString decodes a JSON string or bare number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*f = flexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*f = flexString(num.String())
	return nil
}

// parseGeneratedPlan decodes the upstream JSON and maps it into the domain
// model. Missing optional fields default to empty; a missing required field
// (title, any workout day, exercise name, muscle groups) makes the whole
// plan malformed rather than silently substituting placeholders.
func parseGeneratedPlan(raw string) (*domain.WorkoutPlan, error) {
	var payload generatedPlan
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationMalformed, err)
	}

	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("%w: missing plan title", ErrGenerationMalformed)
	}
	if len(payload.WorkoutDays) == 0 {
		return nil, fmt.Errorf("%w: plan has no workout days", ErrGenerationMalformed)
	}

	days := make([]domain.WorkoutDay, 0, len(payload.WorkoutDays))
	for i, day := range payload.WorkoutDays {
		exercises := make([]domain.Exercise, 0, len(day.Exercises))
		for j, ex := range day.Exercises {
			if strings.TrimSpace(ex.Name) == "" {
				return nil, fmt.Errorf("%w: exercise %d of day %d has no name", ErrGenerationMalformed, j+1, i+1)
			}
			if len(ex.MuscleGroups) == 0 {
				return nil, fmt.Errorf("%w: exercise %q has no muscle groups", ErrGenerationMalformed, ex.Name)
			}
			exercises = append(exercises, domain.Exercise{
				Name:         ex.Name,
				Sets:         int(ex.Sets),
				Reps:         string(ex.Reps),
				RestTime:     string(ex.RestTime),
				Description:  ex.Description,
				Equipment:    ex.Equipment,
				MuscleGroups: ex.MuscleGroups,
				Difficulty:   ex.Difficulty,
				Instructions: ex.Instructions,
				Alternatives: ex.Alternatives,
			})
		}
		days = append(days, domain.WorkoutDay{
			Day:       day.Day,
			Focus:     day.Focus,
			Exercises: exercises,
			WarmUp:    day.WarmUp,
			CoolDown:  day.CoolDown,
			TotalTime: int(day.TotalTime),
		})
	}

	return &domain.WorkoutPlan{
		Title:        payload.Title,
		Description:  payload.Description,
		FitnessLevel: payload.FitnessLevel,
		Goals:        payload.Goals,
		WorkoutDays:  days,
		Notes:        payload.Notes,
		Metadata:     payload.Metadata,
	}, nil
}
