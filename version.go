package daisy

// Version is the engine release version.
var Version = "0.3.0"
