package structures

import "net/http"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Route struct {
	Url     string
	Methods []string
	Handler http.Handler
}
