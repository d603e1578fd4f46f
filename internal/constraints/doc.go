// Package constraints assembles the variables and constraints of an energy
// system model.
//
// The build is split into components (resource, balance, capacity,
// operational, transmission, parasitics, costs, system, objective). Each
// component declares the variable families it owns and emits its
// constraint families against a shared lp.Model. Components are run as
// steps of a dag.Executor, so a component only starts once the components
// whose variables it references are complete.
//
// Every constraint family is built by applying a rule to each index tuple
// of the family. A rule either returns a relation, reports that no
// constraint applies to the tuple, or fails the build with a
// *options.ConfigError.
package constraints
