package refdata

import "github.com/getfitter/go-service-core/refdata/refid"

// Group is one pure reference table. Name is the entity name used in errors
// and cache keys; Prefix is the identifier prefix.
type Group struct {
	Name   string
	Prefix string
}

// Reference groups shipped with the platform.
var (
	DifficultyLevel    = Group{Name: "DifficultyLevel", Prefix: "difficultylevel"}
	BodyPart           = Group{Name: "BodyPart", Prefix: "bodypart"}
	MuscleRole         = Group{Name: "MuscleRole", Prefix: "musclerole"}
	KineticChainType   = Group{Name: "KineticChainType", Prefix: "kineticchaintype"}
	MovementPattern    = Group{Name: "MovementPattern", Prefix: "movementpattern"}
	ExerciseType       = Group{Name: "ExerciseType", Prefix: "exercisetype"}
	ExerciseWeightType = Group{Name: "ExerciseWeightType", Prefix: "exerciseweighttype"}
	MetricType         = Group{Name: "MetricType", Prefix: "metrictype"}
	WorkoutObjective   = Group{Name: "WorkoutObjective", Prefix: "workoutobjective"}
	WorkoutCategory    = Group{Name: "WorkoutCategory", Prefix: "workoutcategory"}
	ExecutionProtocol  = Group{Name: "ExecutionProtocol", Prefix: "executionprotocol"}
)

// Groups lists every reference group.
func Groups() []Group {
	return []Group{
		DifficultyLevel,
		BodyPart,
		MuscleRole,
		KineticChainType,
		MovementPattern,
		ExerciseType,
		ExerciseWeightType,
		MetricType,
		WorkoutObjective,
		WorkoutCategory,
		ExecutionProtocol,
	}
}

// GroupByName looks a group up by its entity name.
func GroupByName(name string) (Group, bool) {
	for _, g := range Groups() {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// NewID returns a fresh identifier for the group.
func (g Group) NewID() refid.ID {
	return refid.New(g.Prefix)
}

// ParseID parses s as an identifier of this group.
func (g Group) ParseID(s string) (refid.ID, error) {
	return refid.Parse(g.Prefix, s)
}
