// Package common contains shared constants and sentinel errors used across
// the files manager components.
package common

// TokenHeaderName is the HTTP header carrying the session token.
const TokenHeaderName = "X-Token"

// RootParentID is the parent reference of files stored at the top level.
const RootParentID = "0"
