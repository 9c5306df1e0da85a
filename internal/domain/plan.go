package domain

import "time"

// PlanRequest carries the user's constraints for generating a workout plan.
// Field names follow the wire format consumed by the frontend.
type PlanRequest struct {
	FitnessLevel       string   `json:"fitness_level"` // beginner, intermediate, advanced
	Goals              []string `json:"goals"`
	AvailableEquipment []string `json:"available_equipment,omitempty"`
	WorkoutDaysPerWeek int      `json:"workout_days_per_week"`
	TimePerSession     int      `json:"time_per_session"` // Minutes
	Preferences        []string `json:"preferences,omitempty"`
	Limitations        []string `json:"limitations,omitempty"`
}

// Exercise is a single exercise within a workout day.
type Exercise struct {
	Name         string   `bson:"name" json:"name"`
	Sets         int      `bson:"sets" json:"sets"`
	Reps         string   `bson:"reps" json:"reps"`         // "10" or a range like "8-12"
	RestTime     string   `bson:"restTime" json:"rest_time"` // e.g. "60s"
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Equipment    []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	MuscleGroups []string `bson:"muscleGroups" json:"muscle_groups"`
	Difficulty   string   `bson:"difficulty" json:"difficulty"`
	Instructions string   `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Alternatives []string `bson:"alternatives,omitempty" json:"alternatives,omitempty"`
}

// WorkoutDay groups the exercises for a single session.
type WorkoutDay struct {
	Day       string     `bson:"day" json:"day"`     // "Day 1", "Monday", ...
	Focus     string     `bson:"focus" json:"focus"` // "Upper Body", "Legs", ...
	Exercises []Exercise `bson:"exercises" json:"exercises"`
	WarmUp    string     `bson:"warmUp,omitempty" json:"warm_up,omitempty"`
	CoolDown  string     `bson:"coolDown,omitempty" json:"cool_down,omitempty"`
	TotalTime int        `bson:"totalTime,omitempty" json:"total_time,omitempty"` // Minutes
}

// WorkoutPlan is a complete generated plan. Owner is immutable once the plan
// is persisted and is the sole authorization key for reads and deletes.
type WorkoutPlan struct {
	ID           string                 `bson:"_id" json:"id"`
	Owner        string                 `bson:"owner" json:"user_id"` // Username of the creator
	Title        string                 `bson:"title" json:"title"`
	Description  string                 `bson:"description" json:"description"`
	FitnessLevel string                 `bson:"fitnessLevel" json:"fitness_level"`
	Goals        []string               `bson:"goals" json:"goals"`
	WorkoutDays  []WorkoutDay           `bson:"workoutDays" json:"workout_days"`
	CreatedAt    time.Time              `bson:"createdAt" json:"created_at"`
	Notes        string                 `bson:"notes,omitempty" json:"notes,omitempty"`
	Metadata     map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
