package model

// Violation names one failed compliance check on one issue. The string
// value is what appears in reports.
type Violation string

const (
	// Common violations (every typed issue).
	NoDueDate          Violation = "No DueDate"
	Delay              Violation = "Delay"
	NoFixVersions      Violation = "No FixVersions"
	NoComponentChengdu Violation = "No Component Chengdu"
	NoLabels           Violation = "No Labels"
	NoImplementer      Violation = "No Implementer"
	NoAskeySecure      Violation = "No Askey-Secure"

	// Story/Bug violations.
	NoCode         Violation = "No Code"
	NoVerification Violation = "No Verification"
	NoStoryPoints  Violation = "No StoryPoints"
	NoSubTask      Violation = "No SubTask"

	// Bug-only violations.
	NoAnalyse  Violation = "No Analyse"
	NoSolution Violation = "No Solution"
)

func (v Violation) String() string { return string(v) }
