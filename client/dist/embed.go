package clientdist

import _ "embed"

// LiveJS is the browser client for the live form connection.
//
// It is served by the server at "/live.js".
//go:embed signup.js
var LiveJS []byte
