// Package device models Imou cloud devices and their entities.
//
// A Device is constructed inert from a device id and becomes valid after
// Initialize() fetches its metadata and instantiates one entity per supported
// capability: switches from the known-switch catalog, a last-alarm sensor, an
// online binary sensor, and where the hardware supports them a storage sensor,
// a night vision selector, and restart/refresh buttons.
//
// Discovery lists every device registered to the account and returns fully
// initialised Device objects keyed by display name.
//
// # Data Validation
//
// The vendor API returns loosely-shaped JSON. Every field this package relies
// on is checked at the point of parsing; a missing or mistyped field is
// reported as ErrInvalidResponse with the offending payload included. Errors
// from the API client itself propagate unchanged.
//
// # Concurrency
//
// A Device and its entities are owned by a single logical flow: entity
// refreshes inside Update() and device initialisations inside Discover() run
// strictly one after another to avoid bursting the vendor API. Device and
// Entity methods are not safe for concurrent use; callers that poll from
// multiple goroutines must serialise access per device.
package device
