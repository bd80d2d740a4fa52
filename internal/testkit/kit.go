package testkit

// TestKit provides testing utilities and fixtures
type TestKit struct {
	Repo  *InMemoryAnalysisRepository
	Model *FakeFittedModel
}

// NewTestKit creates a test kit with an in-memory repository and a
// synthetic fitted mediation model
func NewTestKit() (*TestKit, error) {
	generator := NewMediationModelGenerator(DefaultMediationModelConfig())
	return &TestKit{
		Repo:  NewInMemoryAnalysisRepository(),
		Model: generator.Generate(),
	}, nil
}
