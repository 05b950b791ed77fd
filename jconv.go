package jconv

const (
	// Version of the command line tools.
	Version = "0.4.2"
	// AppName is used for cache and config directories.
	AppName = "jconv"
)
