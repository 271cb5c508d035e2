// Package route names the places a command can lead to next.
package route

// Route is a client-side destination.
type Route string

const (
	Root      Route = "/"
	Login     Route = "/login"
	Callback  Route = "/callback"
	Dashboard Route = "/dashboard"
)

// Resolve returns the route that r ends up at. Root redirects to the
// dashboard; everything else resolves to itself.
func Resolve(r Route) Route {
	if r == Root || r == "" {
		return Dashboard
	}
	return r
}

// Command returns the command that shows r, or "" if r is not reachable
// from the command line.
func Command(r Route) string {
	switch Resolve(r) {
	case Login:
		return "login"
	case Dashboard:
		return "list"
	}
	return ""
}

// Hint returns the command line that takes the user to r, or "" if none
// exists.
func Hint(r Route) string {
	if c := Command(r); c != "" {
		return "tdash " + c
	}
	return ""
}
