// Package lp holds the algebraic model produced by the constraint engine:
// families of decision variables, linear expressions over them, and
// families of linear relations keyed by index tuples.
//
// A model is addressable the same way everywhere in the code base. Every
// variable and constraint has an Address of the form `family[k1,k2,...]`,
// e.g. `es_prod[power,ccgt,r1,t3]` or `c_e_cap[ccgt,r1]`.
//
// The package does not solve anything. StandardForm flattens a model into
// a coefficient matrix with row and column bounds, which is the shape that
// generic LP/MILP solvers accept.
//
// Model is safe for concurrent use: independent build steps may declare
// variable families and add constraints at the same time.
package lp
