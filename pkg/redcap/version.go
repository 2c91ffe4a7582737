package redcap

// Version information for the redcap module.
const (
	Version              = "1.0.0"
	MinCompatibleVersion = "1.0.0"
)
