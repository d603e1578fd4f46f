// Package config defines the format-agnostic description of an energy
// network (technologies, locations, links, time axis and time series),
// along with the Loader interface implemented by concrete file formats.
//
// The `config.Model` is the single source of truth for the `options`,
// `topology` and `sets` packages. Concrete implementations of the Loader,
// such as for HCL, are provided in separate packages.
package config
