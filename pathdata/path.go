// Package pathdata models the path descriptions produced by the router.
// A description is a space separated list of commands, each a verb letter
// followed by its coordinates: "M x y", "L x y" and "Q cx cy x y".
package pathdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"flowarrows/core"
)

// Verb is a path command letter.
type Verb byte

const (
	MoveTo Verb = 'M'
	LineTo Verb = 'L'
	QuadTo Verb = 'Q'
)

// Arity returns the number of points the verb takes.
func (v Verb) Arity() int {
	switch v {
	case MoveTo, LineTo:
		return 1
	case QuadTo:
		return 2
	default:
		return 0
	}
}

// Command is a single drawing instruction.
type Command struct {
	Verb   Verb
	Points []core.Point
}

// End returns the pen position after the command.
func (c Command) End() core.Point {
	return c.Points[len(c.Points)-1]
}

// Path is an ordered command list.
type Path []Command

// String renders the path description.
func (p Path) String() string {
	var sb strings.Builder
	for i, cmd := range p {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(byte(cmd.Verb))
		for _, pt := range cmd.Points {
			sb.WriteByte(' ')
			sb.WriteString(pt.String())
		}
	}
	return sb.String()
}

// Builder accumulates commands.
type Builder struct {
	cmds Path
}

// MoveTo starts a new subpath at p.
func (b *Builder) MoveTo(p core.Point) *Builder {
	b.cmds = append(b.cmds, Command{Verb: MoveTo, Points: []core.Point{p}})
	return b
}

// LineTo draws a straight segment to p.
func (b *Builder) LineTo(p core.Point) *Builder {
	b.cmds = append(b.cmds, Command{Verb: LineTo, Points: []core.Point{p}})
	return b
}

// QuadTo draws a quadratic curve with control point ctrl ending at p.
func (b *Builder) QuadTo(ctrl, p core.Point) *Builder {
	b.cmds = append(b.cmds, Command{Verb: QuadTo, Points: []core.Point{ctrl, p}})
	return b
}

// Path returns the accumulated commands.
func (b *Builder) Path() Path {
	return b.cmds
}

// String renders the accumulated commands.
func (b *Builder) String() string {
	return b.cmds.String()
}

// ErrSyntax is returned by Parse for malformed descriptions.
var ErrSyntax = errors.New("path syntax error")

// Parse reads a path description. Every command must start with a verb
// and carry exactly its arity in coordinate pairs.
func Parse(d string) (Path, error) {
	fields := strings.Fields(d)
	var path Path
	for i := 0; i < len(fields); {
		tok := fields[i]
		if len(tok) != 1 || Verb(tok[0]).Arity() == 0 {
			return nil, fmt.Errorf("%w: unknown command %q at token %d", ErrSyntax, tok, i)
		}
		verb := Verb(tok[0])
		i++

		need := verb.Arity() * 2
		if i+need > len(fields) {
			return nil, fmt.Errorf("%w: %c needs %d numbers", ErrSyntax, verb, need)
		}
		cmd := Command{Verb: verb, Points: make([]core.Point, 0, verb.Arity())}
		for j := 0; j < need; j += 2 {
			x, err := strconv.ParseFloat(fields[i+j], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			y, err := strconv.ParseFloat(fields[i+j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			cmd.Points = append(cmd.Points, core.Point{X: x, Y: y})
		}
		i += need
		path = append(path, cmd)
	}
	if len(path) > 0 && path[0].Verb != MoveTo {
		return nil, fmt.Errorf("%w: path must start with M", ErrSyntax)
	}
	return path, nil
}

// Flatten converts the path into polylines, one per subpath. Quadratic
// curves are approximated with the given number of straight pieces.
func Flatten(p Path, segments int) [][]core.Point {
	if segments < 1 {
		segments = 1
	}

	var lines [][]core.Point
	var current []core.Point
	flush := func() {
		if len(current) > 1 {
			lines = append(lines, current)
		}
		current = nil
	}

	var pen core.Point
	for _, cmd := range p {
		switch cmd.Verb {
		case MoveTo:
			flush()
			pen = cmd.End()
			current = []core.Point{pen}
		case LineTo:
			if current == nil {
				current = []core.Point{pen}
			}
			pen = cmd.End()
			current = append(current, pen)
		case QuadTo:
			if current == nil {
				current = []core.Point{pen}
			}
			ctrl, end := cmd.Points[0], cmd.Points[1]
			for i := 1; i <= segments; i++ {
				current = append(current, quadPoint(pen, ctrl, end, float64(i)/float64(segments)))
			}
			pen = end
		}
	}
	flush()
	return lines
}

func quadPoint(p0, p1, p2 core.Point, t float64) core.Point {
	u := 1 - t
	return core.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}
