package constants

const (
	AppName      = "vlog"
	ConfigName   = "config"
	ConfigFormat = "yaml"
	EnvPrefix    = "VLOG"
)

// Collection names in the document store.
const (
	CollectionContactMessages = "contactMessages"
	CollectionVlogPosts       = "vlogPosts"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
