// Package urls is the site's routing table: every page path the server
// renders, the page template behind it and whether it appears in the
// navigation bar.
//
// Paths are defined here as exported constants so links in templates, the
// terminal form and the CLI never hard-code them:
//
//	import "github.com/muurk/coachsite/internal/urls"
//
//	http.Redirect(w, r, urls.BookService("Corporate Team Building"), http.StatusFound)
//
// Any path that is not in the table is a 404. The server renders that page
// without the navigation bar and footer.
package urls
