// Package mcf models compiled Minecraft function files: the instruction set
// lowering produces and the textual form written into a datapack.
package mcf

import (
	"fmt"
	"strings"

	"github.com/hanmindev/blastfurnace-workspaces/internal/name"
)

// Instruction is one emitted step. Kind is exactly one of Command, Call,
// Chain or SubBlock.
type Instruction struct {
	Kind InstructionKind
}

// InstructionKind is the closed set of instruction kinds.
type InstructionKind interface {
	instructionKind()
}

// Command is a plain Minecraft command, without a leading slash.
type Command string

// Call invokes another mcfunction. Prefix and Suffix wrap the call keyword
// and target, e.g. Call{"function", "ns:path/foo", ""}.
type Call struct {
	Prefix string
	Target string
	Suffix string
}

// Chain runs Second under First, for commands like execute or return that
// prefix another command, e.g. Chain("execute as @a run", "say hi").
type Chain struct {
	First  *Instruction
	Second *Instruction
}

// SubBlock nests a block of instructions.
type SubBlock struct {
	Block Block
}

func (Command) instructionKind()  {}
func (Call) instructionKind()     {}
func (Chain) instructionKind()    {}
func (SubBlock) instructionKind() {}

// Block is a sequence of instructions.
type Block struct {
	Instructions []Instruction
}

// Function is one named mcfunction body.
type Function struct {
	Name  string
	Block Block
}

// File is the top-level unit: the module path it was compiled from and the
// functions it produced.
type File struct {
	Path      *name.Path
	Functions []Function
}

func (i Instruction) String() string {
	switch k := i.Kind.(type) {
	case Command:
		return string(k)
	case Call:
		return fmt.Sprintf("%s %s %s", k.Prefix, k.Target, k.Suffix)
	case Chain:
		return fmt.Sprintf("%s %s", k.First, k.Second)
	case SubBlock:
		return k.Block.String()
	}
	panic("unreachable")
}

func (b Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, instruction := range b.Instructions {
		sb.WriteString(instruction.String())
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (f Function) String() string {
	return fmt.Sprintf("%s %s", f.Name, f.Block)
}

func (f File) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "File: %s\n", f.Path)
	for _, function := range f.Functions {
		fmt.Fprintf(&sb, "%s\n", function)
	}
	return sb.String()
}
