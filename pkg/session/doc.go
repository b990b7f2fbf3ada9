// Package session keeps the live form sessions of a server in memory.
//
// A Registry maps opaque session IDs (random UUIDs, carried in a cookie)
// to values. Entries expire after a period of inactivity; a background
// loop removes them, and a lookup of an expired entry behaves as if it
// had already been removed.
//
//	reg := session.NewRegistry[*signup.Session](session.WithIdleTimeout(30 * time.Minute))
//	defer reg.Close()
//
//	id, _ := reg.Create(signup.NewSession())
//	s, ok := reg.Get(id)
//
// Nothing is persisted; closing the registry or restarting the process
// discards every session.
package session
