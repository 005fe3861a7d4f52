package gosolve

// Version is the release reported by the binaries.
const Version = "0.1.0"
