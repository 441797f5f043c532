package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/query"
)

// Text renderings of command payloads. JSON output marshals the
// underlying slices unchanged.

type (
	entityTable   []graph.EntityView
	rankedTable   []graph.RankedEntityView
	relationTable []graph.RelationView
	propertyTable []graph.PropertyView
	spaceTable    []graph.SpaceView
	memberTable   []graph.MemberView
	valueTable    []graph.ValueView
)

// entityDetail is one entity with its values.
type entityDetail struct {
	Entity graph.EntityView  `json:"entity"`
	Values []graph.ValueView `json:"values"`
}

// statement renders an explained query.
type statement query.Statement

func table(w io.Writer, header string, rows func(tw io.Writer)) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (t entityTable) renderText(w io.Writer) error {
	return table(w, "ID\tNAME\tDESCRIPTION", func(tw io.Writer) {
		for _, e := range t {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, deref(e.Name), deref(e.Description))
		}
	})
}

func (t rankedTable) renderText(w io.Writer) error {
	return table(w, "ID\tNAME\tRANK", func(tw io.Writer) {
		for _, e := range t {
			fmt.Fprintf(tw, "%s\t%s\t%.3f\n", e.ID, deref(e.Name), e.Rank)
		}
	})
}

func (t relationTable) renderText(w io.Writer) error {
	return table(w, "ID\tTYPE\tFROM\tTO\tSPACE", func(tw io.Writer) {
		for _, r := range t {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.TypeID, r.FromID, r.ToID, r.SpaceID)
		}
	})
}

func (t propertyTable) renderText(w io.Writer) error {
	return table(w, "ID\tTYPE\tNAME", func(tw io.Writer) {
		for _, p := range t {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.DataType, deref(p.Name))
		}
	})
}

func (t spaceTable) renderText(w io.Writer) error {
	return table(w, "ID\tTYPE\tDAO\tSPACE", func(tw io.Writer) {
		for _, s := range t {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Type, s.DAOAddress, s.SpaceAddress)
		}
	})
}

func (t memberTable) renderText(w io.Writer) error {
	return table(w, "ADDRESS\tSPACE", func(tw io.Writer) {
		for _, m := range t {
			fmt.Fprintf(tw, "%s\t%s\n", m.Address, m.SpaceID)
		}
	})
}

func (t valueTable) renderText(w io.Writer) error {
	return table(w, "ID\tPROPERTY\tSPACE\tVALUE", func(tw io.Writer) {
		for _, v := range t {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.ID, v.PropertyID, v.SpaceID, deref(v.Value))
		}
	})
}

func (d entityDetail) renderText(w io.Writer) error {
	fmt.Fprintf(w, "ID:          %s\n", d.Entity.ID)
	fmt.Fprintf(w, "Name:        %s\n", deref(d.Entity.Name))
	fmt.Fprintf(w, "Description: %s\n", deref(d.Entity.Description))
	fmt.Fprintf(w, "Created:     %s (block %s)\n", d.Entity.CreatedAt, d.Entity.CreatedAtBlock)
	fmt.Fprintf(w, "Updated:     %s (block %s)\n", d.Entity.UpdatedAt, d.Entity.UpdatedAtBlock)
	fmt.Fprintln(w)
	return valueTable(d.Values).renderText(w)
}

func (s statement) renderText(w io.Writer) error {
	fmt.Fprintln(w, s.SQL)
	for i, arg := range s.Args {
		fmt.Fprintf(w, "  $%d = %#v\n", i+1, arg)
	}
	return nil
}
