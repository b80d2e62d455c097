// Package howto extracts structured how-to guide records (title, author,
// supplies, steps, image URLs) from loosely-structured HTML pages whose
// markup varies across sites and over time.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package howto
