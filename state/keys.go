// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"slices"

	"golang.org/x/exp/maps"
)

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys maps a state key to the permissions an action needs on it. Use Add
// rather than direct assignment so a later declaration never narrows an
// earlier one.
type Keys map[string]Permissions

// Permissions is a bitmask over Read, Allocate and Write.
type Permissions byte

// Add unions [permission] into the permissions already declared for [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Union adds every key of [o] to [k].
func (k Keys) Union(o Keys) {
	for name, p := range o {
		k.Add(name, p)
	}
}

// Sorted returns the key names in ascending order. Locks are acquired in this
// order so two transactions never wait on each other.
func (k Keys) Sorted() []string {
	names := maps.Keys(k)
	slices.Sort(names)
	return names
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

func (p Permissions) String() string {
	switch p {
	case None:
		return "none"
	case Read:
		return "read"
	case Allocate:
		return "allocate"
	case Write:
		return "write"
	case All:
		return "all"
	default:
		return "mixed"
	}
}
