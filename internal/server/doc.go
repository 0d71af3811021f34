// Package server serves the coaching site over HTTP.
//
// Pages are rendered server-side from the embedded templates and the site
// content. The booking form is backed by per-visitor sessions from
// internal/booking; each session owns its form values and a submission
// lifecycle controller.
//
// # Routes
//
//	GET    /                   home
//	GET    /about              about
//	GET    /services           service cards linking to /book?service=<title>
//	GET    /faq?open=panelN    accordion with one panel expanded
//	GET    /book               mount a new booking form
//	GET    /inquiry            the booking form in dialog mode
//	GET    /book/:id           re-render an existing form
//	POST   /book/:id           submit
//	POST   /book/:id/field     change one field, returns its validity flag
//	GET    /book/:id/state     current lifecycle state
//	GET    /book/:id/events    websocket feed of lifecycle transitions
//	DELETE /book/:id           tear the form down
//	GET    /healthz            liveness
//	GET    /resources/*        static assets
//
// Any other path renders the 404 page without navigation or footer.
//
// # Submit Outcomes
//
// A submit with flagged fields re-renders the form with inline messages and
// leaves the lifecycle alone (200). An accepted submit resets the form and
// puts up the overlay (200). A submit while the overlay is up is rejected
// with 409, and one against a torn-down session with 410. Handlers answer
// JSON when the client prefers it.
//
// # Events Feed
//
// The websocket feed sends {"state":...,"overlay":...} once on connect and
// again on every transition. It closes with 1001 when the session is torn
// down or the server shuts down.
//
// # Usage
//
//	srv, err := server.New(&settings, site)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until SIGINT or SIGTERM, then shuts down gracefully: the
// mDNS announcement is withdrawn, open feeds are closed and every booking
// session is torn down so no lifecycle timer outlives the process.
package server
