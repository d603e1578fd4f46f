// Package sets derives the index sets of a model build (techs, locations,
// timesteps, carriers, cost classes) and the tech subsets that decide
// which constraints apply to which tech.
//
// Every tech is tagged once with a Class taken from its first abstract
// ancestor, so constraint code dispatches on the tag instead of repeating
// group-membership lookups.
package sets
