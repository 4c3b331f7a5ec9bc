package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/labdash/internal/catalog"
	"github.com/hamed0406/labdash/internal/domain"
)

var (
	ErrDuplicateID = errors.New("duplicate target id")
	ErrInvalidURL  = errors.New("invalid target url")
	ErrMissingID   = errors.New("target id is required")
	ErrNoTargets   = errors.New("dashboard defines no targets")
)

// Dashboard is the static catalog. It is loaded once and never mutated.
type Dashboard struct {
	Services []domain.Target `yaml:"services"`
	Websites []domain.Target `yaml:"hostedWebsites"`
}

// Targets returns the list probed for a group.
func (d *Dashboard) Targets(g domain.Group) []domain.Target {
	switch g {
	case domain.GroupServices:
		return d.Services
	case domain.GroupWebsites:
		return d.Websites
	default:
		return nil
	}
}

// LoadDashboard reads and validates the YAML catalog at path.
func LoadDashboard(path string) (*Dashboard, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dashboard: %w", err)
	}
	return ParseDashboard(content)
}

func ParseDashboard(content []byte) (*Dashboard, error) {
	var d Dashboard
	if err := yaml.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("parse dashboard: %w", err)
	}
	for i := range d.Services {
		trimTarget(&d.Services[i])
	}
	for i := range d.Websites {
		trimTarget(&d.Websites[i])
		// categories only group services
		d.Websites[i].Category = ""
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("validate dashboard: %w", err)
	}
	return &d, nil
}

// Validate reports every problem at once. Ids share one namespace across
// both groups.
func (d *Dashboard) Validate() error {
	if len(d.Services) == 0 && len(d.Websites) == 0 {
		return ErrNoTargets
	}

	var errs error
	seen := make(map[domain.TargetID]domain.Group)
	check := func(g domain.Group, idx int, t domain.Target) {
		if t.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d]: %w", g, idx, ErrMissingID))
			return
		}
		if prev, ok := seen[t.ID]; ok {
			errs = multierr.Append(errs, fmt.Errorf("%s[%d] %q already used in %s: %w", g, idx, t.ID, prev, ErrDuplicateID))
		} else {
			seen[t.ID] = g
		}
		if !validURL(t.URL) {
			errs = multierr.Append(errs, fmt.Errorf("%s %q url %q: %w", g, t.ID, t.URL, ErrInvalidURL))
		}
		if err := catalog.ValidateIcon(t.Icon); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s %q: %w", g, t.ID, err))
		}
	}
	for i, t := range d.Services {
		check(domain.GroupServices, i, t)
	}
	for i, t := range d.Websites {
		check(domain.GroupWebsites, i, t)
	}
	return errs
}

// Warnings lists non-fatal issues such as categories that fall back to the
// default section style.
func (d *Dashboard) Warnings() []string {
	var out []string
	for _, t := range d.Services {
		if t.Category == "" {
			out = append(out, fmt.Sprintf("service %q has no category", t.ID))
			continue
		}
		if !catalog.KnownCategory(t.Category) {
			out = append(out, fmt.Sprintf("service %q uses unknown category %q (default style applies)", t.ID, t.Category))
		}
	}
	return out
}

func trimTarget(t *domain.Target) {
	t.ID = domain.TargetID(strings.TrimSpace(string(t.ID)))
	t.Name = strings.TrimSpace(t.Name)
	t.URL = strings.TrimSpace(t.URL)
	t.Icon = strings.TrimSpace(t.Icon)
	t.Category = strings.TrimSpace(t.Category)
}

func validURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
