// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
)

var _ chain.Parser = (*Parser)(nil)

// Parser knows every action and auth the node accepts.
type Parser struct {
	actionRegistry *codec.TypeParser[chain.Action]
	authRegistry   *codec.TypeParser[chain.Auth]
}

func NewParser() (*Parser, error) {
	p := &Parser{
		actionRegistry: codec.NewTypeParser[chain.Action](),
		authRegistry:   codec.NewTypeParser[chain.Auth](),
	}
	if err := actions.Register(p.actionRegistry); err != nil {
		return nil, err
	}
	if err := auth.Register(p.authRegistry); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) ActionRegistry() *codec.TypeParser[chain.Action] {
	return p.actionRegistry
}

func (p *Parser) AuthRegistry() *codec.TypeParser[chain.Auth] {
	return p.authRegistry
}
