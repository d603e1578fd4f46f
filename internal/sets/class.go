package sets

import (
	"fmt"

	"github.com/vk/energridgo/internal/options"
)

// Class is the semantic group of a tech.
type Class int

const (
	Unclassified Class = iota
	Supply
	UnmetDemand
	Demand
	Storage
	Transmission
	Conversion
)

var classNames = map[Class]string{
	Unclassified: "unclassified",
	Supply:       options.Supply,
	UnmetDemand:  options.UnmetDemand,
	Demand:       options.Demand,
	Storage:      options.Storage,
	Transmission: options.Transmission,
	Conversion:   options.Conversion,
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ClassOf returns the class of the first abstract ancestor in the tech's
// parent chain. An unmet_demand tech is therefore UnmetDemand even though
// unmet_demand itself descends from supply.
func ClassOf(opts *options.Store, y string) Class {
	for _, name := range opts.Chain(y) {
		for c, n := range classNames {
			if c != Unclassified && n == name {
				return c
			}
		}
	}
	return Unclassified
}
