// Package location holds the home model: rooms, the devices placed in them
// and the security system state.
//
// A Home indexes rooms and devices by case-insensitive name. Arming the
// security system switches every camera on and locks every door.
//
// Environment adapts a Home to the automation capability surface, so rules
// and scheduled tasks act on the home without knowing its concrete types.
//
// # Thread Safety
//
// Home and Room are safe for concurrent use. Device state is guarded by
// each device; the controller serialises automation against API and MQTT
// commands so a tick sees a consistent home.
package location
