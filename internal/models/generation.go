package models

// GeneratedFile is a rendered wrapper ready to be written
type GeneratedFile struct {
	Type        TypeIdentity // original type
	WrapperName string
	PackageName string
	FilePath    string // path where the file should be written
	Content     string // formatted Go source
}

// WrapperFilePrefix starts the name of every wrapper file the generator writes
const WrapperFilePrefix = "autogen_measured_"
