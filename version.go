package nodedev

// Version is the library version, overridable at build time via
// -ldflags "-X github.com/ian-griptape-ai/node-development.Version=...".
var Version = "0.3.0-dev"
