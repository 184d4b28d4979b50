package types

// TestCase is one scripted client/server interaction scenario, constructed
// by the registry from a case directory (manifest plus two golden
// transcripts). It is immutable for the duration of a run.
type TestCase struct {
	// Name is the case directory name, unique within a suite.
	Name string

	// Dir is the absolute path to the case directory.
	Dir string

	// Inputs are fed to the client's stdin in order, one per stage.
	Inputs []string

	// Points is the credit value awarded when both transcripts match.
	Points int

	// ExpectedClient and ExpectedServer are the golden transcripts,
	// already normalized for comparison.
	ExpectedClient []string
	ExpectedServer []string
}
