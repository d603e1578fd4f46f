package lp

import (
	"fmt"
	"regexp"
	"strings"
)

// Key is an ordered index tuple, e.g. (carrier, tech, location, timestep).
type Key []string

// K builds a Key from its parts.
func K(parts ...string) Key {
	return Key(parts)
}

// String joins the key parts with commas.
func (k Key) String() string {
	return strings.Join(k, ",")
}

// Address identifies one member of a variable or constraint family.
type Address struct {
	Family string
	Key    Key
}

// String serializes the Address into its canonical `family[k1,k2]` form.
func (a Address) String() string {
	if len(a.Key) == 0 {
		return a.Family
	}
	return a.Family + "[" + a.Key.String() + "]"
}

var addressRegex = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)(?:\[([^\[\]]*)\])?$`)

// ParseAddress parses the canonical string form of an Address.
func ParseAddress(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("address cannot be empty")
	}
	matches := addressRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Address{}, fmt.Errorf("invalid address format: %q", raw)
	}
	addr := Address{Family: matches[1]}
	if matches[2] == "" {
		return addr, nil
	}
	for _, part := range strings.Split(matches[2], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Address{}, fmt.Errorf("address %q contains an empty index", raw)
		}
		addr.Key = append(addr.Key, part)
	}
	return addr, nil
}

// Product returns the cartesian product of the given index sets, in
// row-major order (the last set varies fastest).
func Product(sets ...[]string) []Key {
	if len(sets) == 0 {
		return nil
	}
	total := 1
	for _, s := range sets {
		total *= len(s)
	}
	keys := make([]Key, 0, total)
	if total == 0 {
		return keys
	}
	idx := make([]int, len(sets))
	for {
		key := make(Key, len(sets))
		for i, s := range sets {
			key[i] = s[idx[i]]
		}
		keys = append(keys, key)

		pos := len(sets) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(sets[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return keys
		}
	}
}
