package ast

// Option sets a top-level configuration parameter. Repeated keys are
// resolved by the options resolver using last-value-wins (see
// SPEC_FULL.md §3.4).
//
//	option "title" "Personal Ledger"
//	option "operating_currency" "USD"
type Option struct {
	Pos   Position
	Name  string
	Value string
}

func (o *Option) Position() Position { return o.Pos }

// Include pulls in directives from another file, resolved relative to
// the directory of the file containing it. The path may be a glob
// pattern matching zero or more files.
//
//	include "accounts/*.bean"
type Include struct {
	Pos     Position
	Pattern string
}

func (i *Include) Position() Position { return i.Pos }

// Plugin names a processing plugin to run after parsing. The core
// pipeline records plugin directives but does not itself execute
// plugins (out of scope, see spec.md Non-goals).
type Plugin struct {
	Pos    Position
	Name   string
	Config string
}

func (p *Plugin) Position() Position { return p.Pos }

// Pushtag/Poptag bracket a run of transactions that should
// automatically receive a tag, applied in file order before dated
// sorting (see Enrich).
type Pushtag struct {
	Pos Position
	Tag Tag
}

func (p *Pushtag) Position() Position { return p.Pos }

type Poptag struct {
	Pos Position
	Tag Tag
}

func (p *Poptag) Position() Position { return p.Pos }

// Pushmeta/Popmeta bracket a run of directives that should
// automatically receive a metadata entry.
type Pushmeta struct {
	Pos   Position
	Key   string
	Value *MetadataValue
}

func (p *Pushmeta) Position() Position { return p.Pos }

type Popmeta struct {
	Pos Position
	Key string
}

func (p *Popmeta) Position() Position { return p.Pos }
