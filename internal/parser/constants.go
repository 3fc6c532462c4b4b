package parser

const (
	// ConstructorPrefix starts the name of every function treated as a constructor
	ConstructorPrefix = "New"

	// TestFileSuffix marks files excluded from reading
	TestFileSuffix = "_test.go"
)
