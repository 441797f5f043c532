package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/kgraph/internal/filter"
	"github.com/roach88/kgraph/internal/query"
)

// pageFlags are the --limit and --offset flags shared by list commands.
type pageFlags struct {
	limit  int
	offset int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.limit, "limit", query.DefaultLimit, "maximum rows (negative for no limit)")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "rows to skip")
}

// page returns the Page for the flags the user actually set.
func (p *pageFlags) page(cmd *cobra.Command) query.Page {
	var page query.Page
	if cmd.Flags().Changed("limit") {
		page.Limit = &p.limit
	}
	if cmd.Flags().Changed("offset") {
		page.Offset = &p.offset
	}
	return page
}

// filterFlags are --filter and --filter-file.
type filterFlags struct {
	inline string
	file   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inline, "filter", "", "filter tree as JSON")
	cmd.Flags().StringVar(&f.file, "filter-file", "", "read the filter tree from a JSON file (- for stdin)")
}

// parse decodes the filter. No filter flags is the unconstrained filter.
func (f *filterFlags) parse(cmd *cobra.Command) (*filter.Filter, error) {
	if f.inline != "" && f.file != "" {
		return nil, NewExitError(ExitCommandError, ErrCodeInvalidArgs, "--filter and --filter-file are exclusive")
	}

	data := []byte(f.inline)
	if f.file != "" {
		var err error
		if f.file == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(f.file)
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, ErrCodeNotFound, "failed to read filter", err)
		}
	}

	parsed, err := filter.Parse(data)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, ErrCodeInvalidArgs, "invalid filter", err)
	}
	return parsed, nil
}

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		spaceID string
		pf      pageFlags
		ff      filterFlags
	)

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "List entities matching a filter",
		Long: `List entities matching a filter tree, ordered by id.

Examples:
  kgq entities --db graph.db
  kgq entities --filter '{"value": {"property": "P_TEXT", "text": {"contains": "Hello"}}}' --space S1
  kgq entities --filter-file filter.json --limit 10 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := ff.parse(cmd)
			if err != nil {
				return e.fail(err)
			}
			views, err := e.exec.Entities(cmd.Context(), f, query.EntityOptions{SpaceID: spaceID, Page: pf.page(cmd)})
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(entityTable(views))
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "restrict to one space")
	pf.register(cmd)
	ff.register(cmd)
	return cmd
}

// NewEntityCommand creates the entity command.
func NewEntityCommand(rootOpts *RootOptions) *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "entity <id>",
		Short: "Show one entity and its values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			view, err := e.exec.Entity(cmd.Context(), args[0], spaceID)
			if err != nil {
				return e.fail(err)
			}
			if view == nil {
				return e.notFound("entity", args[0])
			}
			values, err := e.exec.EntityValues(cmd.Context(), args[0], query.ValuesOptions{
				SpaceID: spaceID,
				Page:    query.Page{Limit: ptr(-1)},
			})
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(entityDetail{Entity: *view, Values: values})
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "resolve names and values in one space")
	return cmd
}

// NewRelationsCommand creates the relations command.
func NewRelationsCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		typeID, from, to, spaceID string
		pf                        pageFlags
	)

	cmd := &cobra.Command{
		Use:   "relations",
		Short: "List relations",
		Long: `List relations, ordered by id. Each flag narrows the result.

Examples:
  kgq relations --type T1
  kgq relations --type T1 --from E1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			set := func(flag, v string) *string {
				if !cmd.Flags().Changed(flag) {
					return nil
				}
				return &v
			}
			rf := filter.RelationFilter{
				TypeID:       set("type", typeID),
				FromEntityID: set("from", from),
				ToEntityID:   set("to", to),
				SpaceID:      set("space", spaceID),
			}

			views, err := e.exec.Relations(cmd.Context(), rf, pf.page(cmd))
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(relationTable(views))
		},
	}

	cmd.Flags().StringVar(&typeID, "type", "", "relation type id")
	cmd.Flags().StringVar(&from, "from", "", "source entity id")
	cmd.Flags().StringVar(&to, "to", "", "target entity id")
	cmd.Flags().StringVar(&spaceID, "space", "", "space id")
	pf.register(cmd)
	return cmd
}

// NewRelationCommand creates the relation command.
func NewRelationCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "relation <id>",
		Short: "Show one relation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			view, err := e.exec.Relation(cmd.Context(), args[0])
			if err != nil {
				return e.fail(err)
			}
			if view == nil {
				return e.notFound("relation", args[0])
			}
			return e.out.Success(relationTable{*view})
		},
	}
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		spaceID string
		pf      pageFlags
	)

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List type entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			views, err := e.exec.Types(cmd.Context(), query.TypesOptions{SpaceID: spaceID, Page: pf.page(cmd)})
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(entityTable(views))
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "restrict to one space")
	pf.register(cmd)
	return cmd
}

// NewPropertiesCommand creates the properties command.
func NewPropertiesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		typeID, spaceID string
		pf              pageFlags
	)

	cmd := &cobra.Command{
		Use:   "properties",
		Short: "List properties, optionally those declared by one type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			views, err := e.exec.Properties(cmd.Context(), query.PropertiesOptions{
				TypeID:  typeID,
				SpaceID: spaceID,
				Page:    pf.page(cmd),
			})
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(propertyTable(views))
		},
	}

	cmd.Flags().StringVar(&typeID, "type", "", "type entity id")
	cmd.Flags().StringVar(&spaceID, "space", "", "restrict to one space")
	pf.register(cmd)
	return cmd
}

// NewSpacesCommand creates the spaces command.
func NewSpacesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		ids    []string
		member string
		pf     pageFlags
	)

	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "List spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := query.SpacesOptions{Member: member, Page: pf.page(cmd)}
			if cmd.Flags().Changed("id") {
				opts.IDs = ids
			}
			views, err := e.exec.Spaces(cmd.Context(), opts)
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(spaceTable(views))
		},
	}

	cmd.Flags().StringSliceVar(&ids, "id", nil, "space ids (repeatable)")
	cmd.Flags().StringVar(&member, "member", "", "only spaces this address belongs to")
	pf.register(cmd)
	return cmd
}

// NewMembersCommand creates the members command.
func NewMembersCommand(rootOpts *RootOptions) *cobra.Command {
	var pf pageFlags

	cmd := &cobra.Command{
		Use:   "members <space-id>",
		Short: "List the members of a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			views, err := e.exec.Members(cmd.Context(), args[0], pf.page(cmd))
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(memberTable(views))
		},
	}

	pf.register(cmd)
	return cmd
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		spaceID string
		pf      pageFlags
		ff      filterFlags
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Rank entities by name similarity",
		Long: `Find entities whose name contains the term or is trigram-similar to it.
Results are ordered by rank, best first.

Example:
  kgq search "alice" --space S1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd, true)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := ff.parse(cmd)
			if err != nil {
				return e.fail(err)
			}
			views, err := e.exec.Search(cmd.Context(), query.SearchOptions{
				Query:   args[0],
				SpaceID: spaceID,
				Filter:  f,
				Page:    pf.page(cmd),
			})
			if err != nil {
				return e.fail(err)
			}
			return e.out.Success(rankedTable(views))
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "restrict to one space")
	pf.register(cmd)
	ff.register(cmd)
	return cmd
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		spaceID string
		pf      pageFlags
		ff      filterFlags
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the SQL an entities query would run",
		Long: `Compile a filter tree and print the SQL statement and bound arguments
without touching a database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(rootOpts, cmd)
			f, err := ff.parse(cmd)
			if err != nil {
				return out.Fail(err)
			}

			stmt, err := query.New(nil).Explain(f, query.EntityOptions{SpaceID: spaceID, Page: pf.page(cmd)})
			if err != nil {
				if query.IsInputError(err) {
					return out.Fail(WrapExitError(ExitCommandError, ErrCodeInvalidArgs, "invalid input", err))
				}
				return out.Fail(WrapExitError(ExitFailure, ErrCodeGeneric, "compile failed", err))
			}
			out.VerboseLog("%d bound arguments", len(stmt.Args))
			return out.Success(statement(stmt))
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "restrict to one space")
	pf.register(cmd)
	ff.register(cmd)
	return cmd
}

func ptr[T any](v T) *T { return &v }

