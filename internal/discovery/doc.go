// Package discovery announces coachsite servers over mDNS and finds them.
//
// A server started with --announce registers an "_http._tcp" service whose
// TXT record carries app=coachsite, the root path and the build version, so
// phones and tablets on the same network can open the site to check its
// responsive layouts without anyone typing an address.
//
// # Usage Example
//
//	ann, err := discovery.Announce("studio", 8080, version.Version)
//	if err != nil {
//	    return err
//	}
//	defer ann.Shutdown()
//
//	instances, err := discovery.NewScanner().Scan(ctx)
//	for _, in := range instances {
//	    fmt.Println(in.URL())
//	}
//
// Entries without app=coachsite in their TXT record are ignored, so other
// HTTP services on the network never show up in a scan.
package discovery
