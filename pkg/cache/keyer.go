package cache

// PlanKeyOpts are the planner settings that change a plan result.
type PlanKeyOpts struct {
	Start        string `json:"start"`
	Mode         string `json:"mode"`
	SingleBudget int    `json:"single_budget"`
	DualBudget   int    `json:"dual_budget"`
	Strategy     string `json:"strategy"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format     string `json:"format"`
	Compressed bool   `json:"compressed"`
	Routes     bool   `json:"routes"`
}

// Keyer derives cache keys.
type Keyer interface {
	// PlanKey identifies a plan result for a graph with the given hash.
	PlanKey(graphHash string, opts PlanKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// PlanKey returns "plan:<sha256>".
func (DefaultKeyer) PlanKey(graphHash string, opts PlanKeyOpts) string {
	return hashKey("plan", graphHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}
