// Package resolve turns free-text city and material names into canonical
// resource identifiers, distinguishing exact matches, best-effort partial
// matches that need confirmation, and no-match.
package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/freight-agent/internal/resource"
	"github.com/jonathan/freight-agent/internal/types"
)

// Kind discriminates the outcome of a resolution.
type Kind int

const (
	// NotFound means the collection holds nothing resembling the query.
	NotFound Kind = iota
	// Ambiguous means candidates exist but none matched verbatim; the
	// caller must confirm before any is used.
	Ambiguous
	// Exact means a candidate's display name equals the query
	// case-insensitively in full.
	Exact
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not_found"
	}
}

// Resolution is the outcome of resolving one name. For Ambiguous results the
// candidate list is non-empty, sorted by descending score, and BestGuess is
// its head.
type Resolution struct {
	Kind       Kind
	Ref        types.ResourceRef
	Candidates []types.ScoredRef
	BestGuess  *types.ScoredRef
}

// Resolver resolves free-text names against one collection.
type Resolver struct {
	client        *resource.Client
	nameField     string
	maxCandidates int
	searchLimit   int
	listLimit     int
	embedded      map[string]int
	regionField   string

	// Fallback listing matches below this score are discarded.
	floor float64
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithMaxCandidates caps how many candidates an Ambiguous resolution carries.
func WithMaxCandidates(n int) ResolverOption {
	return func(r *Resolver) { r.maxCandidates = n }
}

// WithEmbedded requests embedded related documents on searches and listings.
func WithEmbedded(embedded map[string]int) ResolverOption {
	return func(r *Resolver) { r.embedded = embedded }
}

// WithRegionField reads a region label for each candidate from the given
// path in the raw document, for display alongside the name.
func WithRegionField(path string) ResolverOption {
	return func(r *Resolver) { r.regionField = path }
}

// NewResolver creates a resolver over one collection, matching against the
// given display-name field.
func NewResolver(client *resource.Client, nameField string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		client:        client,
		nameField:     nameField,
		maxCandidates: 5,
		searchLimit:   10,
		listLimit:     500,
		floor:         0.05,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewCityResolver creates the standard city resolver, embedding each city's
// district and state so candidates display as "Jaipur (Rajasthan)".
func NewCityResolver(client *resource.Client) *Resolver {
	return NewResolver(client, "name",
		WithEmbedded(map[string]int{"district": 1, "district.state": 1}),
		WithRegionField("district.state.name"))
}

// NewMaterialResolver creates the standard material-type resolver.
func NewMaterialResolver(client *resource.Client) *Resolver {
	return NewResolver(client, "name")
}

// Resolve maps a free-text name to a canonical reference. A prefix-anchored
// search runs first; when it comes back empty the whole collection is listed
// and scored locally, so misspelled queries like "jaypur" still surface
// near-miss candidates.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Resolution, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, fmt.Errorf("%s resolution: name is empty", r.client.Collection())
	}

	refs, err := r.prefixSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	if exact := findExact(query, refs); exact != nil {
		return &Resolution{Kind: Exact, Ref: *exact}, nil
	}

	if len(refs) == 0 {
		refs, err = r.listAll(ctx)
		if err != nil {
			return nil, err
		}
		if exact := findExact(query, refs); exact != nil {
			return &Resolution{Kind: Exact, Ref: *exact}, nil
		}
	}

	candidates := r.rank(query, refs)
	if len(candidates) == 0 {
		return &Resolution{Kind: NotFound}, nil
	}
	return &Resolution{
		Kind:       Ambiguous,
		Candidates: candidates,
		BestGuess:  &candidates[0],
	}, nil
}

func (r *Resolver) prefixSearch(ctx context.Context, query string) ([]types.ResourceRef, error) {
	q := resource.PrefixQuery(r.nameField, query)
	q.MaxResults = r.searchLimit
	if r.embedded != nil {
		q.Embedded = r.embedded
	}
	result, err := r.client.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s resolution: %w", r.client.Collection(), err)
	}
	return result.RefsWithRegion(r.client.Collection(), r.nameField, r.regionField), nil
}

// listAll fetches the whole collection with the exact query Warm primes the
// cache with, so warmed listings are actually the ones Resolve reads.
func (r *Resolver) listAll(ctx context.Context) ([]types.ResourceRef, error) {
	q := resource.Query{MaxResults: r.listLimit}
	if r.embedded != nil {
		q.Embedded = r.embedded
	}
	result, err := r.client.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s resolution: %w", r.client.Collection(), err)
	}
	return result.RefsWithRegion(r.client.Collection(), r.nameField, r.regionField), nil
}

// Warm primes the client cache with the full listing Resolve falls back to
// on misspelled queries.
func (r *Resolver) Warm(ctx context.Context) error {
	_, err := r.listAll(ctx)
	return err
}

// Collection names the collection this resolver reads.
func (r *Resolver) Collection() string {
	return r.client.Collection()
}

// rank scores the refs against the query, drops those at or below the floor,
// sorts by descending score with name as tiebreaker and truncates to
// maxCandidates.
func (r *Resolver) rank(query string, refs []types.ResourceRef) []types.ScoredRef {
	scored := make([]types.ScoredRef, 0, len(refs))
	for _, ref := range refs {
		s := Score(query, ref.Name)
		if s <= r.floor {
			continue
		}
		scored = append(scored, types.ScoredRef{ResourceRef: ref, Score: s})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Name < scored[j].Name
	})
	if len(scored) > r.maxCandidates {
		scored = scored[:r.maxCandidates]
	}
	return scored
}

func findExact(query string, refs []types.ResourceRef) *types.ResourceRef {
	for i := range refs {
		if strings.EqualFold(refs[i].Name, query) {
			return &refs[i]
		}
	}
	return nil
}
