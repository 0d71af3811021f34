package urls

import "net/url"

// Page paths.
const (
	Home     = "/"
	About    = "/about"
	FAQ      = "/faq"
	Services = "/services"
	Book     = "/book"
	Inquiry  = "/inquiry"
)

// Non-page paths.
const (
	// Resources serves stylesheets, scripts and images.
	Resources = "/resources"
	// Health is the liveness check.
	Health = "/healthz"
)

// ServiceParam is the query parameter that preselects a service on the booking form.
const ServiceParam = "service"

// Navigation bar colours for the active and inactive links.
const (
	NavActiveColour   = "#2f2f2f"
	NavInactiveColour = "#858585"
)

// Route is one entry of the routing table.
type Route struct {
	Path  string
	Title string
	// Page is the name of the HTML template that renders the route.
	Page string
	// Nav is true when the route is linked from the navigation bar.
	Nav bool
}

// Routes lists every page in navigation order.
var Routes = []Route{
	{Path: Home, Title: "Home", Page: "home.html", Nav: true},
	{Path: About, Title: "About", Page: "about.html", Nav: true},
	{Path: Services, Title: "Services", Page: "services.html", Nav: true},
	{Path: FAQ, Title: "FAQ", Page: "faq.html", Nav: true},
	{Path: Book, Title: "Book", Page: "book.html", Nav: true},
	{Path: Inquiry, Title: "Inquiry", Page: "book.html", Nav: false},
}

// Lookup returns the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Known reports whether path is a page in the routing table.
// Unknown paths render the 404 page without navigation chrome.
func Known(path string) bool {
	_, ok := Lookup(path)
	return ok
}

// Nav returns the routes shown in the navigation bar.
func Nav() []Route {
	nav := make([]Route, 0, len(Routes))
	for _, r := range Routes {
		if r.Nav {
			nav = append(nav, r)
		}
	}
	return nav
}

// NavColour returns the link colour for route when current is the path being viewed.
func NavColour(route, current string) string {
	if route == current {
		return NavActiveColour
	}
	return NavInactiveColour
}

// BookService returns the booking page link that preselects service.
func BookService(service string) string {
	if service == "" {
		return Book
	}
	return Book + "?" + url.Values{ServiceParam: {service}}.Encode()
}
