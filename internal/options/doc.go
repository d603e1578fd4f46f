// Package options implements the layered option store that technologies
// and locations are configured through.
//
// A key such as "ccgt.constraints.e_cap.max" scoped to location "r1" is
// resolved by the first layer that defines it:
//
//  1. the location override for the full tech name (e.g. "hvac:r2")
//  2. the location override for the base tech name (e.g. "hvac")
//  3. the tech itself, then each of its parents in turn
//  4. the built-in abstract techs and the root "defaults" tech
//
// A `false` value is a real value and stops the lookup; a key that no layer
// defines resolves to ErrOptionNotSet.
package options
