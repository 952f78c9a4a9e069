package source

import (
	"sync"

	"github.com/seedslab/seeds-analytics/pkg/models"
)

// Context is the immutable, shared-by-reference view of all loaded inputs.
// It is built once per process and handed to every component that needs
// source data; nothing re-reads the files afterwards.
type Context struct {
	Blogs       []models.BlogPost
	Frequencies []models.TopicFrequency
	Labels      map[string]string
	TopicData   []models.TopicRecord

	// Layout is the precomputed 3D layout, nil when docs_3d.csv is absent.
	// LayoutErr carries ErrMissingColumns when the file exists but violates
	// the column contract; the two states render differently.
	Layout    *Layout
	LayoutErr error
}

// Label resolves a topic id to its display label, falling back to the
// stringified id when the map has no entry.
func (c *Context) Label(topicID string) string {
	if label, ok := c.Labels[topicID]; ok {
		return label
	}
	return topicID
}

// Store memoizes a single load of the source files for the process lifetime.
// Inputs are treated as static for the session, so there is no invalidation.
type Store struct {
	loader *Loader

	once sync.Once
	ctx  *Context
	err  error
}

// NewStore creates a store over the given loader.
func NewStore(loader *Loader) *Store {
	return &Store{loader: loader}
}

// Get returns the loaded context, performing the one-time load on first use.
func (s *Store) Get() (*Context, error) {
	s.once.Do(func() {
		s.ctx, s.err = s.load()
	})
	return s.ctx, s.err
}

func (s *Store) load() (*Context, error) {
	labels, err := s.loader.LoadLabels()
	if err != nil {
		return nil, err
	}
	blogs, err := s.loader.LoadBlogs()
	if err != nil {
		return nil, err
	}
	freqs, err := s.loader.LoadFrequencies()
	if err != nil {
		return nil, err
	}
	topicData, err := s.loader.LoadTopicData()
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		Blogs:       blogs,
		Frequencies: freqs,
		Labels:      labels,
		TopicData:   topicData,
	}
	// The layout is optional and its column contract is checked lazily by
	// the topic map; keep the violation alongside rather than failing here.
	ctx.Layout, ctx.LayoutErr = s.loader.LoadLayout()
	return ctx, nil
}
