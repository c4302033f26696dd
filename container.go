package gctoo

import "fmt"

// GCToo binds a data matrix to its row and column metadata. The row metadata
// ids always equal the data row labels, and the column metadata ids always
// equal the data column labels, in the same order.
type GCToo struct {
	// Source is the provenance of the container, usually the path it was read
	// from.
	Source string

	// Version is the format tag, such as "GCT1.3" or "GCTX1.0".
	Version string

	data    *Matrix
	rowMeta *MetaTable
	colMeta *MetaTable
	joined  *JoinedView
}

// Option configures New.
type Option func(*GCToo)

func WithSource(src string) Option { return func(g *GCToo) { g.Source = src } }

func WithVersion(version string) Option { return func(g *GCToo) { g.Version = version } }

// WithJoinedView builds the joined view at construction.
func WithJoinedView() Option {
	return func(g *GCToo) { g.joined = &JoinedView{} }
}

// New validates the three tables against each other and reorders the
// metadata to the data's row and column order. A nil metadata table stands
// for ids with no fields.
func New(data *Matrix, rowMeta, colMeta *MetaTable, opts ...Option) (*GCToo, error) {
	if data == nil {
		return nil, fmt.Errorf("New: data is nil")
	}
	g := &GCToo{data: data}
	for _, opt := range opts {
		opt(g)
	}

	var err error
	if rowMeta == nil {
		if rowMeta, err = EmptyMetaTable(data.rows); err != nil {
			return nil, err
		}
	}
	if colMeta == nil {
		if colMeta, err = EmptyMetaTable(data.cols); err != nil {
			return nil, err
		}
	}

	if g.rowMeta, err = alignMeta("rid", data.rows, rowMeta); err != nil {
		return nil, err
	}
	if g.colMeta, err = alignMeta("cid", data.cols, colMeta); err != nil {
		return nil, err
	}

	if g.joined != nil {
		g.joined = buildJoinedView(g)
	}
	return g, nil
}

func alignMeta(axis string, ids []string, meta *MetaTable) (*MetaTable, error) {
	if err := sameLabelSet(axis, ids, meta.ids); err != nil {
		return nil, err
	}
	return meta.Reindex(ids)
}

// Data returns the data matrix.
func (g *GCToo) Data() *Matrix { return g.data }

// RowMetadata returns the row metadata, ordered like the data rows.
func (g *GCToo) RowMetadata() *MetaTable { return g.rowMeta }

// ColMetadata returns the column metadata, ordered like the data columns.
func (g *GCToo) ColMetadata() *MetaTable { return g.colMeta }

// SetData replaces the data matrix. Both metadata tables must match its
// labels as sets, and are reordered to it.
func (g *GCToo) SetData(data *Matrix) error {
	rowMeta, err := alignMeta("rid", data.rows, g.rowMeta)
	if err != nil {
		return fmt.Errorf("SetData: %w", err)
	}
	colMeta, err := alignMeta("cid", data.cols, g.colMeta)
	if err != nil {
		return fmt.Errorf("SetData: %w", err)
	}
	g.data, g.rowMeta, g.colMeta = data, rowMeta, colMeta
	g.refreshJoined()
	return nil
}

// SetRowMetadata replaces the row metadata after validating it against the
// data rows.
func (g *GCToo) SetRowMetadata(meta *MetaTable) error {
	aligned, err := alignMeta("rid", g.data.rows, meta)
	if err != nil {
		return fmt.Errorf("SetRowMetadata: %w", err)
	}
	g.rowMeta = aligned
	g.refreshJoined()
	return nil
}

// SetColMetadata replaces the column metadata after validating it against the
// data columns.
func (g *GCToo) SetColMetadata(meta *MetaTable) error {
	aligned, err := alignMeta("cid", g.data.cols, meta)
	if err != nil {
		return fmt.Errorf("SetColMetadata: %w", err)
	}
	g.colMeta = aligned
	g.refreshJoined()
	return nil
}

// JoinedView returns the joined view, or nil if it was never built.
func (g *GCToo) JoinedView() *JoinedView { return g.joined }

// BuildJoinedView builds the joined view if it does not exist yet and
// returns it.
func (g *GCToo) BuildJoinedView() *JoinedView {
	if g.joined == nil {
		g.joined = buildJoinedView(g)
	}
	return g.joined
}

// SetJoinedView always fails: the joined view is derived state.
func (g *GCToo) SetJoinedView(*JoinedView) error {
	return &ImmutableViewError{}
}

func (g *GCToo) refreshJoined() {
	if g.joined != nil {
		g.joined = buildJoinedView(g)
	}
}

func (g *GCToo) String() string {
	dr, dc := g.data.Shape()
	rr, rc := g.rowMeta.Shape()
	cr, cc := g.colMeta.Shape()
	return fmt.Sprintf("%s\nsrc: %s\ndata: [%d rows x %d columns]\nrow_metadata: [%d rows x %d columns]\ncol_metadata: [%d rows x %d columns]",
		g.Version, g.Source, dr, dc, rr, rc, cr, cc)
}
