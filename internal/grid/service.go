package grid

import (
	"context"
	"errors"
	"fmt"
	"sort"

	v1 "github.com/gridbinder-lab/project-gridbinder/internal/api/v1"
	"github.com/gridbinder-lab/project-gridbinder/internal/core/query"
	"github.com/gridbinder-lab/project-gridbinder/internal/core/storage"
	"github.com/google/uuid"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid grid query")

	// ErrUnknownResource is returned for resource names nothing is registered under.
	ErrUnknownResource = errors.New("unknown grid resource")
)

// Options tune request handling.
type Options struct {
	// DefaultPageSize is applied when a request sends no take or pageSize.
	// Zero serves every row unless MaxPageSize is set.
	DefaultPageSize int

	// MaxPageSize rejects larger pages. Zero means unlimited.
	MaxPageSize int

	// MaxBodySizeMB caps POST bodies.
	MaxBodySizeMB int
}

// Service serves grid queries over a set of named resources.
type Service struct {
	resources        map[string]Resource
	defaultPageSize  int
	maxPageSize      int
	maxBodySizeBytes int
	newRequestID     func() string
}

// NewService creates a grid service. Resource names must be unique.
func NewService(opts Options, resources ...Resource) (*Service, error) {
	if opts.DefaultPageSize < 0 || opts.MaxPageSize < 0 {
		return nil, fmt.Errorf("page sizes must be >= 0")
	}
	if opts.MaxPageSize > 0 && opts.DefaultPageSize > opts.MaxPageSize {
		return nil, fmt.Errorf("default page size %d exceeds max page size %d", opts.DefaultPageSize, opts.MaxPageSize)
	}

	byName := make(map[string]Resource, len(resources))
	for _, res := range resources {
		if _, dup := byName[res.Name()]; dup {
			return nil, fmt.Errorf("duplicate grid resource %q", res.Name())
		}
		byName[res.Name()] = res
	}

	maxBody := opts.MaxBodySizeMB
	if maxBody <= 0 {
		maxBody = 1
	}

	return &Service{
		resources:        byName,
		defaultPageSize:  opts.DefaultPageSize,
		maxPageSize:      opts.MaxPageSize,
		maxBodySizeBytes: maxBody * 1024 * 1024,
		newRequestID:     uuid.NewString,
	}, nil
}

// DirectoryResources exposes the directory store as the employees and
// companies resources, plus the flattened employee-views resource.
func DirectoryResources(store storage.DirectoryStore) ([]Resource, error) {
	employees, err := NewEndpoint[v1.Employee]("employees", store.ListEmployees)
	if err != nil {
		return nil, err
	}
	companies, err := NewEndpoint[v1.Company]("companies", store.ListCompanies)
	if err != nil {
		return nil, err
	}
	views, err := NewViewEndpoint[v1.Employee, v1.EmployeeView]("employee-views", store.ListEmployees, v1.EmployeeViewFields, v1.ToEmployeeViews)
	if err != nil {
		return nil, err
	}
	return []Resource{employees, companies, views}, nil
}

// Resources lists the registered resource names in order.
func (s *Service) Resources() []string {
	names := make([]string, 0, len(s.resources))
	for name := range s.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Query decodes the wire request, applies the page size policy and runs it
// against the named resource.
func (s *Service) Query(ctx context.Context, resource string, wire v1.DataSourceRequest) (*Result, error) {
	res, ok := s.resources[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}

	req, err := wire.ToQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	if req.Take, err = s.pageSize(req.Take); err != nil {
		return nil, err
	}

	return res.Serve(ctx, req)
}

// pageSize resolves the effective take. A take of zero means the client did
// not ask for paging.
func (s *Service) pageSize(take int) (int, error) {
	if take == 0 {
		take = s.defaultPageSize
		if take == 0 {
			take = s.maxPageSize
		}
	}
	if s.maxPageSize > 0 && take > s.maxPageSize {
		return 0, fmt.Errorf("%w: take %d exceeds the maximum page size %d", ErrInvalidQuery, take, s.maxPageSize)
	}
	return take, nil
}

// configError extracts the engine's structured error for response details.
func configError(err error) (*query.ConfigError, bool) {
	var cfgErr *query.ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
