// Package messages defines the domain event payloads published on the
// backend's broadcast channels, together with their topic key helpers and
// subscription-side filters. Each event type gets its own broker instance,
// so payloads are type-checked at compile time; see the subscriptions
// package for the wiring.
package messages
